package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"vodpress/internal/config"
	"vodpress/internal/encoder"
	"vodpress/internal/joblog"
	"vodpress/internal/logging"
	"vodpress/internal/notify"
	"vodpress/internal/objectstore"
	"vodpress/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var payloadFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process the newest source object through the pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := newCLILogger(cfg)
			if err != nil {
				return err
			}

			runner, cleanup, err := buildRunner(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			payload := []byte(payloadFlag)
			if payloadFlag == "" {
				payload = []byte(`{"trigger":"cli"}`)
			}

			result := runner.Run(cmd.Context(), payload)

			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))

			if result.StatusCode != 200 {
				return fmt.Errorf("job failed with status %d", result.StatusCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&payloadFlag, "payload", "", "JSON trigger payload (defaults to a CLI trigger)")
	return cmd
}

// newCLILogger logs to the configured log directory so command output stays
// machine readable on stdout.
func newCLILogger(cfg *config.Config) (*slog.Logger, error) {
	outputs := []string{"stderr"}
	if cfg.Paths.LogDir != "" {
		outputs = []string{filepath.Join(cfg.Paths.LogDir, "vodpress.log")}
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
}

func buildRunner(cfg *config.Config, logger *slog.Logger) (*pipeline.Runner, func(), error) {
	store, err := objectstore.New(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("connect object store: %w", err)
	}

	publisher := notify.NewPublisher(cfg.Notify)

	enc, err := encoder.New(cfg.FFmpeg.Binary, cfg.FFmpeg.TranscodeTimeout, cfg.FFmpeg.ThumbnailTimeout)
	if err != nil {
		publisher.Close() //nolint:errcheck
		return nil, nil, fmt.Errorf("init encoder: %w", err)
	}

	ledger, err := joblog.Open(cfg)
	if err != nil {
		publisher.Close() //nolint:errcheck
		return nil, nil, fmt.Errorf("open job ledger: %w", err)
	}

	cleanup := func() {
		ledger.Close()    //nolint:errcheck
		publisher.Close() //nolint:errcheck
	}

	return pipeline.NewRunner(cfg, store, publisher, enc, ledger, logger), cleanup, nil
}
