package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voiceguard/api/internal/auth"
	"voiceguard/api/internal/config"
	"voiceguard/api/internal/handle"
	"voiceguard/api/internal/metrics"
)

// NewRouter exposes the gateway plus liveness and metrics endpoints.
func NewRouter(cfg config.Config, h *handle.Handle) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), countRequests())

	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", "Accept", auth.HeaderAPIKey},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSAllowOrigins) == 0 || (len(cfg.CORSAllowOrigins) == 1 && cfg.CORSAllowOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowOrigins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/", gin.WrapF(h.Root))
	router.GET("/healthz", gin.WrapF(h.Healthz))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// The gateway answers every method itself so non-POST gets its JSON 405.
	router.Any("/api/detect", gin.WrapF(h.Detect))

	return router
}

func countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, cfg config.Config, h http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("voiceguard listening on %s", srv.Addr)
		log.Printf("endpoint: http://localhost:%s/api/detect", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
