package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateNotify(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.ScratchDir == "" {
		return errors.New("paths.scratch_dir must be set")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.Endpoint == "" {
		return errors.New("storage.endpoint must be set")
	}
	if c.Storage.SourceBucket == "" {
		return errors.New("storage.source_bucket must be set")
	}
	if c.Storage.DestinationBucket == "" {
		return errors.New("storage.destination_bucket must be set")
	}
	if c.Storage.SourceBucket == c.Storage.DestinationBucket {
		return errors.New("storage.source_bucket and storage.destination_bucket must differ")
	}
	return nil
}

func (c *Config) validateNotify() error {
	if !c.Notify.Enabled {
		return nil
	}
	if c.Notify.RedisAddr == "" {
		return errors.New("notify.redis_addr must be set when notify.enabled is true")
	}
	if c.Notify.Topic == "" {
		return errors.New("notify.topic must be set when notify.enabled is true")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.TranscodeTimeout < 0 {
		return fmt.Errorf("ffmpeg.transcode_timeout must not be negative, got %d", c.FFmpeg.TranscodeTimeout)
	}
	if c.FFmpeg.ThumbnailTimeout < 0 {
		return fmt.Errorf("ffmpeg.thumbnail_timeout must not be negative, got %d", c.FFmpeg.ThumbnailTimeout)
	}
	return nil
}
