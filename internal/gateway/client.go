package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"intakedocs/internal/config"
	"intakedocs/internal/domain"
	"intakedocs/internal/port"
)

// Client implements port.DocumentGateway against the external intake API.
// The API owns documents, submissions, and extracted-field records; this
// client is a thin request/response boundary with no local state.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a gateway client from API config.
func NewClient(cfg *config.APIConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewClientWithEndpoint creates a client pointing at a custom base URL (for testing).
func NewClientWithEndpoint(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// apiEnvelope is the intake API's standard response wrapper.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) GetDocument(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/documents/%s", docID), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	var sub domain.Submission
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/submissions/%s", submissionID), nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *Client) UpdateDocumentStatus(ctx context.Context, docID uuid.UUID, update port.StatusUpdate) error {
	body := map[string]string{"status": string(update.Status)}
	if update.DocumentType != "" {
		body["documentType"] = update.DocumentType
	}
	if update.ErrorMessage != "" {
		body["errorMessage"] = update.ErrorMessage
	}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/documents/%s/status", docID), body, nil)
}

func (c *Client) SaveExtractedField(ctx context.Context, submissionID, docID uuid.UUID, field domain.ExtractedField) error {
	body := map[string]interface{}{
		"submissionId":  submissionID,
		"documentId":    docID,
		"fieldName":     field.FieldName,
		"fieldValue":    field.FieldValue,
		"confidence":    field.Confidence,
		"source":        field.Source,
		"extractedText": field.ExtractedText,
	}
	return c.do(ctx, http.MethodPost, "/extracted-fields", body, nil)
}

func (c *Client) ClaimQueued(ctx context.Context, limit int) ([]domain.Document, error) {
	var result struct {
		Documents []domain.Document `json:"documents"`
	}
	body := map[string]int{"limit": limit}
	if err := c.do(ctx, http.MethodPost, "/documents/claim", body, &result); err != nil {
		return nil, err
	}
	return result.Documents, nil
}

// do executes one API call, unwrapping the response envelope into out when
// out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrGatewayUnavailable, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", domain.ErrGatewayUnavailable, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s returned status %d: %s",
			domain.ErrGatewayUnavailable, method, path, resp.StatusCode, truncate(string(respBody), 300))
	}

	if out == nil {
		return nil
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("unmarshaling response envelope: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("unmarshaling response data: %w", err)
	}
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
