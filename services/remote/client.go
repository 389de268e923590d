// Package remote is the HTTP client for the triage backend: sessions,
// temperature assessment, disease detection, conversational triage, provider
// discovery, emergency advice and medication reminders.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthguide/models"
)

const requestIDHeader = "X-Request-ID"

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a client for baseURL. A nil httpClient uses a client with
// no overall timeout; callers bound calls through ctx.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

var _ API = (*Client)(nil)

func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var out sessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/session", nil, &out); err != nil {
		return "", err
	}
	if out.SessionID == "" {
		return "", ErrEmptySessionID
	}
	return out.SessionID, nil
}

func (c *Client) AssessTemperature(ctx context.Context, req TemperatureRequest) (*models.TemperatureAssessment, error) {
	var out models.TemperatureAssessment
	if err := c.do(ctx, http.MethodPost, "/api/temperature/assess", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DetectDisease(ctx context.Context, req DiseaseRequest) (*models.DiseaseDetection, error) {
	if req.AdditionalContext == nil {
		req.AdditionalContext = map[string]any{}
	}
	var out models.DiseaseDetection
	if err := c.do(ctx, http.MethodPost, "/api/disease/detect", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Triage(ctx context.Context, req TriageRequest) (*TriageResponse, error) {
	if req.ConversationHistory == nil {
		req.ConversationHistory = []models.HistoryEntry{}
	}
	var out TriageResponse
	if err := c.do(ctx, http.MethodPost, "/api/triage", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SmartFind(ctx context.Context, req SmartFindRequest) (*SmartFindResponse, error) {
	var out SmartFindResponse
	if err := c.do(ctx, http.MethodPost, "/api/providers/smart-find", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Nearby(ctx context.Context, req NearbyRequest) ([]models.Provider, error) {
	var out []models.Provider
	if err := c.do(ctx, http.MethodPost, "/api/providers/nearby", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Chat calls the plain advice endpoint. It carries no session or triage state.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var out chatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", chatRequest{Message: message}, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

func (c *Client) CreateReminder(ctx context.Context, req models.ReminderRequest) (*models.MedicationReminder, error) {
	var out models.MedicationReminder
	if err := c.do(ctx, http.MethodPost, "/api/medication/reminder", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListReminders(ctx context.Context, sessionID string) ([]models.MedicationReminder, error) {
	var out remindersResponse
	path := "/api/medication/reminders/" + url.PathEscape(sessionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Reminders == nil {
		return []models.MedicationReminder{}, nil
	}
	return out.Reminders, nil
}

func (c *Client) StopReminder(ctx context.Context, reminderID int64) error {
	path := "/api/medication/reminder/" + strconv.FormatInt(reminderID, 10)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) FrequencyOptions(ctx context.Context) ([]models.FrequencyOption, error) {
	var out frequencyOptionsResponse
	if err := c.do(ctx, http.MethodGet, "/api/medication/frequency-options", nil, &out); err != nil {
		return nil, err
	}
	return out.Options, nil
}

// Ping checks the backend's health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// do sends body as JSON and decodes a 2xx answer into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("remote call failed", zap.String("method", method), zap.String("path", path), zap.String("requestID", requestID), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Detail: parseDetail(raw)}
		c.logger.Debug("remote call rejected", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode), zap.String("detail", apiErr.Detail))
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// parseDetail extracts "detail" from an error body. Validation errors carry a
// list of objects with a "msg"; those are joined.
func parseDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
