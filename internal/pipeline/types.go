package pipeline

import (
	"context"

	"vodpress/internal/joblog"
	"vodpress/internal/objectstore"
	"vodpress/internal/services"
)

// ObjectStore is the storage surface the pipeline consumes. The production
// implementation is objectstore.Client; tests substitute fakes.
type ObjectStore interface {
	List(ctx context.Context, bucket string) ([]objectstore.ObjectInfo, error)
	Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error
	Download(ctx context.Context, bucket, key, localPath string) error
	Upload(ctx context.Context, bucket, localPath, key string) error
	UploadDir(ctx context.Context, bucket, localDir, prefix string) error
}

// Encoder runs the external transcode and thumbnail commands.
type Encoder interface {
	Transcode(ctx context.Context, inputPath, outputDir string) error
	Thumbnail(ctx context.Context, inputPath, outputPath string) error
}

// Ledger records invocation history. A nil ledger disables recording.
type Ledger interface {
	Begin(ctx context.Context, id, sourceKey, baseName string) error
	Finish(ctx context.Context, id string, status joblog.Status, outputPath, errorDetail string) error
}

// Result is the structured response returned to the trigger caller.
type Result struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	OutputPath string `json:"outputPath,omitempty"`
	Error      string `json:"error,omitempty"`
}

func successResult(sourceKey, outputPath string) Result {
	return Result{
		StatusCode: 200,
		Message:    "Transcoding and DASH packaging completed for " + sourceKey + ".",
		OutputPath: outputPath,
	}
}

func failureResult(err error) Result {
	return Result{
		StatusCode: services.HTTPStatus(err),
		Message:    services.UserMessage(err),
		Error:      err.Error(),
	}
}
