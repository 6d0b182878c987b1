package encoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"vodpress/internal/services"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps ffmpeg invocations for DASH packaging and thumbnail
// extraction. Both commands run synchronously to completion; a non-zero exit
// from either surfaces as an encoding error with no partial-result salvage.
type Client struct {
	binary           string
	transcodeTimeout time.Duration
	thumbnailTimeout time.Duration
	exec             Executor
}

// New constructs an encoder client.
func New(binary string, transcodeTimeoutSeconds, thumbnailTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{
		binary:           binary,
		transcodeTimeout: time.Duration(transcodeTimeoutSeconds) * time.Second,
		thumbnailTimeout: time.Duration(thumbnailTimeoutSeconds) * time.Second,
		exec:             commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Transcode produces the three-rendition DASH manifest and segments under
// outputDir.
func (c *Client) Transcode(ctx context.Context, inputPath, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return services.Wrap(services.ErrEncoding, "transcode", "prepare output", "", err)
	}
	runCtx := ctx
	if c.transcodeTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.transcodeTimeout)
		defer cancel()
	}
	if err := c.exec.Run(runCtx, c.binary, transcodeArgs(inputPath, outputDir)); err != nil {
		return services.Wrap(services.ErrEncoding, "transcode", "ffmpeg", "dash packaging", err)
	}
	return nil
}

// Thumbnail extracts a single JPEG frame from the staged source.
func (c *Client) Thumbnail(ctx context.Context, inputPath, outputPath string) error {
	runCtx := ctx
	if c.thumbnailTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.thumbnailTimeout)
		defer cancel()
	}
	if err := c.exec.Run(runCtx, c.binary, thumbnailArgs(inputPath, outputPath)); err != nil {
		return services.Wrap(services.ErrEncoding, "thumbnail", "ffmpeg", "frame extraction", err)
	}
	return nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if detail := stderrTail(stderr.String()); detail != "" {
			return fmt.Errorf("%w: %s", err, detail)
		}
		return err
	}
	return nil
}

// stderrTail keeps the last few stderr lines so error detail stays bounded.
func stderrTail(output string) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return ""
	}
	lines := strings.Split(output, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "; ")
}
