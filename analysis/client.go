package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout for analysis requests.
const DefaultTimeout = 30 * time.Second

// Endpoint paths per mode, relative to the service base URL.
var modePaths = map[Mode]string{
	ModeImage: "/api/analyze-image",
	ModeVideo: "/api/analyze-video",
	ModeAudio: "/api/analyze-audio",
	ModeText:  "/api/text-analysis",
}

// Multipart file field name per upload mode.
var modeFields = map[Mode]string{
	ModeImage: "image",
	ModeVideo: "video",
	ModeAudio: "audio",
}

var fallbackMessages = map[Mode]string{
	ModeImage: "Failed to analyze image. Please try again.",
	ModeVideo: "Failed to analyze video. Please try again.",
	ModeAudio: "Failed to analyze audio. Please try again.",
	ModeText:  "Failed to analyze text. Please try again.",
}

const routeFallbackMessage = "Failed to find a safe route."

// Client talks to the remote analysis service. The endpoints are black-box
// collaborators: given a file or text payload they return an analysis result
// object or fail.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client for the given service base URL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// AnalyzeFile uploads a binary payload to the endpoint for mode and returns
// the normalized brief. Mode must be one of the three upload channels.
func (c *Client) AnalyzeFile(ctx context.Context, mode Mode, filename string, data []byte) (ThreatBrief, error) {
	field, ok := modeFields[mode]
	if !ok {
		return ThreatBrief{}, fmt.Errorf("mode %s does not accept file uploads", mode)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return ThreatBrief{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return ThreatBrief{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return ThreatBrief{}, fmt.Errorf("failed to build upload form: %w", err)
	}

	raw, err := c.do(ctx, mode, modePaths[mode], writer.FormDataContentType(), &body)
	if err != nil {
		return ThreatBrief{}, err
	}
	return Normalize(mode, raw), nil
}

// AnalyzeText sends a chat message to the text-analysis endpoint.
func (c *Client) AnalyzeText(ctx context.Context, message string) (ThreatBrief, error) {
	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return ThreatBrief{}, fmt.Errorf("failed to encode message: %w", err)
	}

	raw, err := c.do(ctx, ModeText, modePaths[ModeText], "application/json", bytes.NewReader(payload))
	if err != nil {
		return ThreatBrief{}, err
	}
	return Normalize(ModeText, raw), nil
}

// SafeRoute asks the route service for a briefing around the given location.
func (c *Client) SafeRoute(ctx context.Context, loc Location) (SafeRouteBrief, error) {
	payload, err := json.Marshal(map[string]Location{"currentLocation": loc})
	if err != nil {
		return SafeRouteBrief{}, fmt.Errorf("failed to encode location: %w", err)
	}

	raw, err := c.doRoute(ctx, bytes.NewReader(payload))
	if err != nil {
		return SafeRouteBrief{}, err
	}
	return NormalizeRoute(raw), nil
}

func (c *Client) do(ctx context.Context, mode Mode, path, contentType string, body io.Reader) (map[string]any, error) {
	return c.post(ctx, path, contentType, body, fallbackMessages[mode])
}

func (c *Client) doRoute(ctx context.Context, body io.Reader) (map[string]any, error) {
	return c.post(ctx, "/api/safe-route", "application/json", body, routeFallbackMessage)
}

// post issues one request and decodes the JSON body. Failures map onto the
// user-facing taxonomy: network errors and non-2xx statuses become transport
// errors, a 2xx with an undecodable body becomes a parse error. Non-2xx
// bodies are consulted for a server-provided error message before falling
// back to the generic per-endpoint phrase.
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, fallback string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("analysis request failed", zap.String("path", path), zap.Error(err))
		return nil, &RequestError{Kind: ErrTransport, Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("analysis response unreadable", zap.String("path", path), zap.Error(err))
		return nil, &RequestError{Kind: ErrTransport, Message: fallback, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := serverErrorMessage(data)
		if message == "" {
			message = fallback
		}
		c.logger.Warn("analysis request rejected",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return nil, &RequestError{Kind: ErrTransport, Status: resp.StatusCode, Message: message}
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		c.logger.Warn("analysis response unparseable", zap.String("path", path), zap.Error(err))
		return nil, &RequestError{Kind: ErrParse, Message: fallback, Err: err}
	}

	return raw, nil
}

// serverErrorMessage extracts the error text a failed response may carry.
// The text endpoint uses "reply" as an alternate field.
func serverErrorMessage(body []byte) string {
	var payload struct {
		Reply string `json:"reply"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if s := strings.TrimSpace(payload.Reply); s != "" {
		return s
	}
	return strings.TrimSpace(payload.Error)
}
