// Package api implements the HTTP client for the join-sound service.
package api

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

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mocbot/sounddash/internal/log"
)

// tracerName identifies this package's spans.
const tracerName = "github.com/mocbot/sounddash/internal/api"

// maxResponseSize caps decoded JSON bodies (1 MiB). Audio payloads are
// fetched without this cap.
const maxResponseSize = 1024 * 1024

// Client talks to the join-sound API for a single session.
type Client struct {
	baseURL string
	session Session
	httpc   *http.Client
	tracer  trace.Tracer
}

// NewClient creates a client for baseURL acting as the given session.
// A zero timeout disables the client-side HTTP timeout.
func NewClient(baseURL string, session Session, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		httpc:   &http.Client{Timeout: timeout},
		tracer:  otel.Tracer(tracerName),
	}
}

// Session returns the session this client acts for.
func (c *Client) Session() Session {
	return c.session
}

// SoundURL returns the locator for a sound's raw audio bytes.
func (c *Client) SoundURL(soundID string) string {
	return fmt.Sprintf("%s/sound/%s", c.baseURL, soundID)
}

// ListSounds fetches the user's sound list. No credential required.
func (c *Client) ListSounds(ctx context.Context) ([]Sound, error) {
	url := fmt.Sprintf("%s/sounds/%s/%s", c.baseURL, c.session.GuildID, c.session.UserID)

	var envelope soundListResponse
	if err := c.getJSON(ctx, "ListSounds", url, &envelope); err != nil {
		return nil, err
	}
	return envelope.Sounds, nil
}

// GetSettings fetches the user's playback settings. No credential required.
func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	url := fmt.Sprintf("%s/settings/%s/%s", c.baseURL, c.session.GuildID, c.session.UserID)

	var envelope settingsResponse
	if err := c.getJSON(ctx, "GetSettings", url, &envelope); err != nil {
		return Settings{}, err
	}
	return envelope.Setting, nil
}

// UploadSounds submits files as one multipart batch. The server reports
// per-file outcomes; HTTP 200, 207 and 400 all carry a parseable
// UploadResponse body, any other status is a transport-level failure.
func (c *Client) UploadSounds(ctx context.Context, files []UploadFile) (*UploadResponse, error) {
	const op = "UploadSounds"
	if !c.session.Authenticated() {
		return nil, fmt.Errorf("%s: no credential configured: %w", op, ErrUnauthorized)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: no files to upload", op)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: building multipart body: %w", op, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("%s: building multipart body: %w", op, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%s: building multipart body: %w", op, err)
	}

	url := fmt.Sprintf("%s/sounds/%s/%s", c.baseURL, c.session.GuildID, c.session.UserID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.session.Token)

	resp, err := c.do(ctx, op, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusMultiStatus, http.StatusBadRequest:
		var result UploadResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&result); err != nil {
			return nil, fmt.Errorf("%s: decoding response: %w", op, err)
		}
		return &result, nil
	default:
		return nil, statusError(op, resp.StatusCode)
	}
}

// UpdateSettings applies a partial settings update.
func (c *Client) UpdateSettings(ctx context.Context, patch SettingsPatch) error {
	const op = "UpdateSettings"
	if !c.session.Authenticated() {
		return fmt.Errorf("%s: no credential configured: %w", op, ErrUnauthorized)
	}

	payload, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("%s: encoding patch: %w", op, err)
	}

	url := fmt.Sprintf("%s/settings/%s/%s", c.baseURL, c.session.GuildID, c.session.UserID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.session.Token)

	resp, err := c.do(ctx, op, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(op, resp.StatusCode)
	}
	return nil
}

// DeleteSound removes a sound by id.
func (c *Client) DeleteSound(ctx context.Context, soundID string) error {
	const op = "DeleteSound"
	if !c.session.Authenticated() {
		return fmt.Errorf("%s: no credential configured: %w", op, ErrUnauthorized)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.SoundURL(soundID), nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.session.Token)

	resp, err := c.do(ctx, op, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(op, resp.StatusCode)
	}
	return nil
}

// FetchSoundData downloads a sound's raw audio bytes. Returns the bytes and
// the reported content type. No credential required.
func (c *Client) FetchSoundData(ctx context.Context, soundID string) ([]byte, string, error) {
	const op = "FetchSoundData"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SoundURL(soundID), nil)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.do(ctx, op, req)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", statusError(op, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%s: reading body: %w", op, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// getJSON performs a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, op, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.do(ctx, op, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError(op, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

// do executes a request with a correlation id and a trace span around it.
func (c *Client) do(ctx context.Context, op string, req *http.Request) (*http.Response, error) {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	ctx, span := c.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", req.URL.String()),
		attribute.String("request.id", requestID),
	))
	defer span.End()

	log.Debug(log.CatAPI, "Sending request", "op", op, "method", req.Method, "url", req.URL.String(), "requestID", requestID)

	resp, err := c.httpc.Do(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatAPI, "Request failed", err, "op", op, "requestID", requestID)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
	}
	log.Debug(log.CatAPI, "Received response", "op", op, "status", resp.StatusCode, "requestID", requestID)
	return resp, nil
}
