package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCommandPrintsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "cli-key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized","message":"Invalid or missing 'x-api-key' header."}`))
			return
		}
		_, _ = w.Write([]byte(`{"classification":"HUMAN","confidence":0.77,"explanation":"lip smacks"}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF\x00\x00\x00\x00WAVEfmt data"), 0o600))

	cmd := detectCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--url", srv.URL, "--api-key", "cli-key", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"classification": "HUMAN"`)

	cmd = detectCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--url", srv.URL, "--api-key", "wrong", path})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
}

func TestDetectCommandNeedsKey(t *testing.T) {
	t.Setenv("SUBMISSION_API_KEY", "")
	cmd := detectCmd()
	cmd.SetArgs([]string{"clip.wav"})
	assert.Error(t, cmd.Execute())
}
