package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"voiceguard/api/internal/config"
	"voiceguard/api/internal/detect/gemini"
	"voiceguard/api/internal/handle"
	"voiceguard/api/internal/httpserver"
)

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(os.Getenv)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			if cfg.SubmissionAPIKey == "" {
				log.Printf("warning: SUBMISSION_API_KEY is not set; every detect request will be rejected")
			}
			if cfg.GeminiAPIKey == "" {
				log.Printf("warning: GEMINI_API_KEY is not set; detect requests will fail with ServerMisconfigured")
			}

			engine := gemini.New(cfg)
			log.Printf("engine=%s model=%s mode=%s", engine.Name(), engine.GetModel(), cfg.ResponseMode)

			h := handle.New(cfg, engine, nil)
			router := httpserver.NewRouter(cfg, h)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return httpserver.Run(ctx, cfg, router)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}
