package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	layout "eco-editor/internal/layout/models"
)

// ============================================================
// Exporter Client
// ============================================================

// ExporterClient обращается к сервису экспорта по HTTP.
type ExporterClient struct {
	baseURL string
	client  *http.Client
}

func NewExporterClient(baseURL string, timeout time.Duration) *ExporterClient {
	return &ExporterClient{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

// RenderPNG отправляет документ в POST /render и возвращает PNG.
func (c *ExporterClient) RenderPNG(ctx context.Context, doc layout.Document, scale float64) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("exporter url is empty")
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/render?scale=" + strconv.FormatFloat(scale, 'f', -1, 64)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("exporter status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	return data, nil
}
