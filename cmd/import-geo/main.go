package main

import (
	"time"

	"fleet-stats-backend/internal/importer"
)

func main() {
	importer.CLIMain(importer.GeoDomain{Now: time.Now}, "import-geo")
}
