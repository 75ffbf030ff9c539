package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"fleet-stats-backend/internal/dto"
	"fleet-stats-backend/internal/model"
	"fleet-stats-backend/internal/repository"
	"fleet-stats-backend/internal/util"
)

type LoadStatService interface {
	// RecordLoadStat appends one node load sample. The timestamp is
	// server-assigned unless the client provided one.
	RecordLoadStat(ctx context.Context, req dto.LoadStatsRequest) error
}

type loadStatService struct {
	loadRepo repository.LoadStatRepository
	now      func() time.Time
}

func NewLoadStatService(loadRepo repository.LoadStatRepository) LoadStatService {
	return &loadStatService{
		loadRepo: loadRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *loadStatService) RecordLoadStat(ctx context.Context, req dto.LoadStatsRequest) error {
	if req.NodeID == "" {
		return model.NewBadRequest("node_id is required")
	}

	ts := s.now()
	if req.Timestamp != nil && *req.Timestamp != "" {
		parsed, err := util.ParseTimeFlexible(*req.Timestamp)
		if err != nil {
			return model.NewBadRequest("invalid timestamp format, use ISO 8601")
		}
		ts = parsed
	}

	stat := model.LoadStat{
		NodeID:     req.NodeID,
		CPULoad:    req.CPULoad,
		MemoryLoad: req.MemoryLoad,
		TS:         ts,
	}
	if err := s.loadRepo.InsertLoadStat(ctx, stat); err != nil {
		return model.NewDatabaseError(err)
	}

	log.Info().Str("node_id", stat.NodeID).Time("ts", stat.TS).Msg("Recorded load stat")
	return nil
}
