package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"driftboard/internal/types"
)

const realtimeSessionsURL = "https://api.openai.com/v1/realtime/sessions"

// defaultVoiceInstructions is the system prompt handed to the realtime
// voice agent when the caller does not supply one.
const defaultVoiceInstructions = "You are a helpful, friendly voice assistant for an ambient dashboard. " +
	"Keep responses concise and natural. You can help with general questions, " +
	"provide information, and assist with daily tasks."

// TurnDetection configures server-side voice activity detection for a
// realtime session.
type TurnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold,omitempty"`
	PrefixPaddingMs   int     `json:"prefix_padding_ms,omitempty"`
	SilenceDurationMs int     `json:"silence_duration_ms,omitempty"`
}

// SessionRequest carries optional overrides for a realtime session.
// Zero-value fields fall back to the configured defaults.
type SessionRequest struct {
	Model         string         `json:"model,omitempty"`
	Voice         string         `json:"voice,omitempty"`
	Instructions  string         `json:"instructions,omitempty"`
	TurnDetection *TurnDetection `json:"turn_detection,omitempty"`
}

// RealtimeClient brokers realtime voice sessions: it exchanges the
// server-held API key for a short-lived client credential the browser
// uses with the peer-to-peer audio transport. The transport itself is
// out of scope here.
type RealtimeClient struct {
	base         *BaseClient
	apiKey       string
	defaultModel string
	defaultVoice string
}

// NewRealtimeClient creates a RealtimeClient. apiKey may be empty, in
// which case CreateSession fails with a configuration error (unlike the
// feed providers, the voice agent has no fallback).
func NewRealtimeClient(httpClient *http.Client, apiKey, model, voice string, opts ...BaseClientOption) *RealtimeClient {
	return &RealtimeClient{
		base:         NewBaseClient(httpClient, "openai-realtime", DefaultRetryPolicy(), "driftboard", opts...),
		apiKey:       apiKey,
		defaultModel: model,
		defaultVoice: voice,
	}
}

// CreateSession requests a realtime session and returns the client
// secret and its expiry.
func (c *RealtimeClient) CreateSession(ctx context.Context, req SessionRequest) (*types.VoiceSession, error) {
	if c.apiKey == "" {
		return nil, types.NewAppError(
			types.ErrCodeConfigMissingCredential,
			"voice API key not configured",
			nil,
		)
	}

	if req.Model == "" {
		req.Model = c.defaultModel
	}
	if req.Voice == "" {
		req.Voice = c.defaultVoice
	}
	if req.Instructions == "" {
		req.Instructions = defaultVoiceInstructions
	}
	if req.TurnDetection == nil {
		req.TurnDetection = &TurnDetection{
			Type:              "server_vad",
			Threshold:         0.5,
			PrefixPaddingMs:   300,
			SilenceDurationMs: 500,
		}
	}

	encoded, err := json.Marshal(req)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "failed to encode session request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, realtimeSessionsURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.base.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamVoice,
			fmt.Sprintf("voice session API error: %d", resp.StatusCode),
			nil,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamVoice, "failed to read session response", err)
	}

	var session types.VoiceSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamVoice, "failed to decode session response", err)
	}
	return &session, nil
}
