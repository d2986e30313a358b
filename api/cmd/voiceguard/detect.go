package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"voiceguard/api/internal/client"
)

func detectCmd() *cobra.Command {
	var (
		url      string
		apiKey   string
		language string
	)
	cmd := &cobra.Command{
		Use:   "detect <audio-file>",
		Short: "Submit an audio file to a running gateway",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				apiKey = os.Getenv("SUBMISSION_API_KEY")
			}
			if strings.TrimSpace(apiKey) == "" {
				return fmt.Errorf("no submission key: pass --api-key or set SUBMISSION_API_KEY")
			}

			res, err := client.New(url, apiKey).DetectFile(cmd.Context(), args[0], language)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://localhost:3000", "gateway base URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "shared submission secret (default $SUBMISSION_API_KEY)")
	cmd.Flags().StringVar(&language, "language", "English", "spoken language of the clip")
	return cmd
}
