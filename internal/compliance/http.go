package compliance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type httpCollaborator struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTP creates a Collaborator that POSTs case summaries as JSON to
// the configured endpoint.
func NewHTTP(cfg *Config, logger *slog.Logger) Collaborator {
	return &httpCollaborator{
		endpoint: cfg.Endpoint,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger.With("system", "compliance"),
	}
}

func (c *httpCollaborator) Submit(ctx context.Context, summary CaseSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal case summary: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build compliance request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit case %s: %w", summary.CaseID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("submit case %s: collector returned %d", summary.CaseID, resp.StatusCode)
	}

	c.logger.Info("case submitted",
		"case_id", summary.CaseID,
		"status", summary.Status,
	)
	return nil
}
