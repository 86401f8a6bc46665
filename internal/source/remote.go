package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/verte-zerg/taja/internal/model"
)

// DefaultURL is the public advice API used by the remote supplier.
const DefaultURL = "https://korean-advice-open-api.vercel.app/api/advice"

const maxPayloadBytes = 1 << 20

// Remote fetches sentences from an HTTP endpoint returning either a JSON
// array of records or a single record.
type Remote struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

type remoteRecord struct {
	Message       string `json:"message"`
	Author        string `json:"author"`
	AuthorProfile string `json:"authorProfile"`
}

// Fetch implements Supplier. It makes exactly one request.
func (r *Remote) Fetch(ctx context.Context) ([]model.Sentence, error) {
	url := r.URL
	if url == "" {
		url = DefaultURL
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	records, err := decodeRecords(body)
	if err != nil {
		return nil, err
	}
	out := make([]model.Sentence, 0, len(records))
	for _, rec := range records {
		out = append(out, model.Sentence{
			Text:    rec.Message,
			Author:  rec.Author,
			Profile: rec.AuthorProfile,
		})
	}
	return out, nil
}

// decodeRecords accepts an array of records or a single record object.
func decodeRecords(body []byte) ([]remoteRecord, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}
	switch trimmed[0] {
	case '[':
		var records []remoteRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("failed to decode records: %w", err)
		}
		return records, nil
	case '{':
		var record remoteRecord
		if err := json.Unmarshal(trimmed, &record); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		return []remoteRecord{record}, nil
	default:
		return nil, fmt.Errorf("unexpected payload starting with %q", trimmed[0])
	}
}
