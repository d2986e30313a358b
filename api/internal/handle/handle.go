package handle

import (
	"encoding/json"
	"net/http"
	"strings"

	"voiceguard/api/internal/auth"
	"voiceguard/api/internal/config"
	"voiceguard/api/internal/detect"
)

const livenessText = "VoiceGuard AI Detection API is Online. Send POST requests to /api/detect"

// Handle serves the detection gateway and the liveness endpoints.
type Handle struct {
	engine       detect.Engine
	auth         auth.Authorizer
	misconfig    string
	maxBodyBytes int64
}

// New wires the gateway. cfg is copied; later changes to it have no effect.
func New(cfg config.Config, engine detect.Engine, az auth.Authorizer) *Handle {
	if az == nil {
		az = auth.SharedSecret(cfg.SubmissionAPIKey)
	}
	limit := cfg.MaxBodyBytes
	if limit <= 0 {
		limit = config.DefaultMaxBodyBytes
	}
	h := &Handle{
		engine:       engine,
		auth:         az,
		maxBodyBytes: limit,
	}
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		h.misconfig = "GEMINI_API_KEY is not set."
	}
	return h
}

// Misconfigured returns a gateway that still checks method and key but
// answers every authorized request with 500 ServerMisconfigured.
func Misconfigured(cfg config.Config, az auth.Authorizer) *Handle {
	h := New(cfg, nil, az)
	h.misconfig = "Server configuration is invalid."
	return h
}

// Root answers the liveness probe of the server variant.
func (h *Handle) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(livenessText))
}

// Healthz always answers 200 "ok".
func (h *Handle) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
