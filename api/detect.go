// Package handler is the serverless deployment of POST /api/detect.
// The platform calls Handler once per request; configuration is read from
// the environment on the first call and reused afterwards.
package handler

import (
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"voiceguard/api/internal/config"
	"voiceguard/api/internal/detect/gemini"
	"voiceguard/api/internal/handle"
)

var gateway = sync.OnceValue(func() http.Handler {
	return newGateway(os.Getenv)
})

func newGateway(getenv func(string) string) http.Handler {
	cfg, err := config.Load(getenv)
	if err != nil {
		log.Printf("config: %v", err)
		fallback := config.Defaults()
		fallback.SubmissionAPIKey = strings.TrimSpace(getenv("SUBMISSION_API_KEY"))
		return http.HandlerFunc(handle.Misconfigured(fallback, nil).Detect)
	}
	h := handle.New(cfg, gemini.New(cfg), nil)
	return http.HandlerFunc(h.Detect)
}

// Handler is the platform entry point for POST /api/detect.
func Handler(w http.ResponseWriter, r *http.Request) {
	gateway().ServeHTTP(w, r)
}
