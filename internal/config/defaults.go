package config

const (
	defaultScratchDir        = "~/.local/share/vodpress/scratch"
	defaultLogDir            = "~/.local/share/vodpress/logs"
	defaultAPIBind           = "127.0.0.1:7512"
	defaultStorageEndpoint   = "127.0.0.1:9000"
	defaultSourceBucket      = "vodunprocessedgcp"
	defaultDestinationBucket = "vodprocessedgcp"
	defaultRedisAddr         = "127.0.0.1:6379"
	defaultTopic             = "verse-dev-433901-topic"
	defaultProjectID         = "verse-dev-433901"
	defaultLocation          = "us-east4"
	defaultFFmpegBinary      = "ffmpeg"
	defaultTranscodeTimeout  = 3600
	defaultThumbnailTimeout  = 120
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ScratchDir: defaultScratchDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Storage: Storage{
			Endpoint:          defaultStorageEndpoint,
			SourceBucket:      defaultSourceBucket,
			DestinationBucket: defaultDestinationBucket,
		},
		Notify: Notify{
			Enabled:   true,
			RedisAddr: defaultRedisAddr,
			Topic:     defaultTopic,
			ProjectID: defaultProjectID,
			Location:  defaultLocation,
		},
		FFmpeg: FFmpeg{
			Binary:           defaultFFmpegBinary,
			TranscodeTimeout: defaultTranscodeTimeout,
			ThumbnailTimeout: defaultThumbnailTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
