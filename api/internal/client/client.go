// Package client submits audio clips to a running VoiceGuard gateway.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"voiceguard/api/internal/auth"
	"voiceguard/api/internal/detect/types"
	"voiceguard/api/internal/util"
)

type Client struct {
	BaseURL string
	APIKey  string
	httpc   *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		httpc:   &http.Client{Timeout: 5 * time.Minute},
	}
}

// APIError is a non-200 reply from the gateway.
type APIError struct {
	StatusCode int
	Body       types.ErrorResponse
}

func (e *APIError) Error() string {
	msg := e.Body.Details
	if msg == "" {
		msg = e.Body.Message
	}
	if msg == "" {
		msg = e.Body.Error
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, msg)
}

// Detect posts raw audio bytes. An empty mimeType is sniffed from the bytes.
func (c *Client) Detect(ctx context.Context, audio []byte, mimeType, language string) (types.Result, error) {
	if len(audio) == 0 {
		return types.Result{}, fmt.Errorf("audio is empty")
	}
	if util.IsWildcardMIME(mimeType) {
		if m := util.SniffAudioMIME(audio); m != "" {
			mimeType = m
		} else {
			mimeType = types.DefaultMIMEType
		}
	}
	sub := types.Submission{
		Audio:    base64.StdEncoding.EncodeToString(audio),
		Language: language,
		MIMEType: mimeType,
	}
	return c.Submit(ctx, sub)
}

// DetectFile reads path and submits it, guessing the MIME type from the extension.
func (c *Client) DetectFile(ctx context.Context, path, language string) (types.Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Result{}, fmt.Errorf("read audio: %w", err)
	}
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if !strings.HasPrefix(mt, "audio/") {
		mt = ""
	}
	return c.Detect(ctx, b, mt, language)
}

// Submit sends an already-built submission.
func (c *Client) Submit(ctx context.Context, sub types.Submission) (types.Result, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return types.Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/detect", bytes.NewReader(payload))
	if err != nil {
		return types.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.HeaderAPIKey, c.APIKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return types.Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Result{}, err
	}
	if resp.StatusCode != http.StatusOK {
		aerr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(body, &aerr.Body)
		return types.Result{}, aerr
	}

	var out types.Result
	if err := json.Unmarshal(body, &out); err != nil {
		return types.Result{}, fmt.Errorf("decode result: %w", err)
	}
	return out, nil
}
