// Package cms talks to the Strapi CMS that publishes GPU pricing classes.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fleet-stats-backend/config"
)

// GPUClass is one published pricing class as returned by the CMS.
type GPUClass struct {
	UUID        string   `json:"uuid"`
	Name        *string  `json:"name"`
	GPUType     *string  `json:"gpuClassType"`
	BatchPrice  *float64 `json:"batchPrice"`
	LowPrice    *float64 `json:"lowPrice"`
	MediumPrice *float64 `json:"mediumPrice"`
	HighPrice   *float64 `json:"highPrice"`
}

type Client struct {
	baseURL    string
	identity   string
	password   string
	httpClient *http.Client
}

func NewClient(cfg config.StrapiConfig) *Client {
	return &Client{
		baseURL:  cfg.URL,
		identity: cfg.Identity,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type authRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type authResponse struct {
	JWT string `json:"jwt"`
}

// Authenticate exchanges the configured credentials for a JWT.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	body, err := json.Marshal(authRequest{Identifier: c.identity, Password: c.password})
	if err != nil {
		return "", fmt.Errorf("marshaling auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/local", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("strapi auth failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("strapi auth returned %d: %s", resp.StatusCode, respBody)
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", fmt.Errorf("decoding auth response: %w", err)
	}
	if auth.JWT == "" {
		return "", fmt.Errorf("strapi auth response had no jwt")
	}
	return auth.JWT, nil
}

// GetGPUClasses fetches the published pricing classes, keyed by uuid.
func (c *Client) GetGPUClasses(ctx context.Context, jwt string) (map[string]GPUClass, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/gpu-classes", nil)
	if err != nil {
		return nil, fmt.Errorf("building gpu-classes request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+jwt)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching gpu classes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("strapi gpu-classes returned %d: %s", resp.StatusCode, respBody)
	}

	var classes []GPUClass
	if err := json.NewDecoder(resp.Body).Decode(&classes); err != nil {
		return nil, fmt.Errorf("decoding gpu classes: %w", err)
	}

	byUUID := make(map[string]GPUClass, len(classes))
	for _, class := range classes {
		byUUID[class.UUID] = class
	}
	return byUUID, nil
}
