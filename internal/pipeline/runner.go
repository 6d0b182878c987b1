package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"vodpress/internal/config"
	"vodpress/internal/joblog"
	"vodpress/internal/logging"
	"vodpress/internal/notify"
	"vodpress/internal/services"
	"vodpress/internal/staging"
)

// Runner drives one job through the fixed sequence: select, archive, stage,
// transcode, package, upload, thumbnail, notify, clean up. Each step's
// completion is a precondition for the next; any failure short-circuits the
// remainder and maps to a single failure result.
type Runner struct {
	cfg       *config.Config
	store     ObjectStore
	publisher notify.Publisher
	enc       Encoder
	ledger    Ledger
	logger    *slog.Logger
}

// NewRunner constructs a pipeline runner. The ledger may be nil.
func NewRunner(cfg *config.Config, store ObjectStore, publisher notify.Publisher, enc Encoder, ledger Ledger, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:       cfg,
		store:     store,
		publisher: publisher,
		enc:       enc,
		ledger:    ledger,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
}

type jobOutcome struct {
	sourceKey  string
	baseName   string
	outputPath string
}

// Run executes exactly one job for the given trigger payload and always
// returns a structured result. Scratch space is released on every exit path.
func (r *Runner) Run(ctx context.Context, payload []byte) Result {
	jobID := uuid.NewString()
	ctx = services.WithJobID(ctx, jobID)
	log := logging.WithContext(ctx, r.logger)

	outcome, err := r.runJob(ctx, log, jobID, payload)
	if err != nil {
		log.Error("job failed", logging.Error(err))
		return failureResult(err)
	}

	log.Info("job completed",
		logging.String("source", outcome.sourceKey),
		logging.String("output_path", outcome.outputPath),
	)
	return successResult(outcome.sourceKey, outcome.outputPath)
}

func (r *Runner) runJob(ctx context.Context, log *slog.Logger, jobID string, payload []byte) (*jobOutcome, error) {
	if err := validateTrigger(payload); err != nil {
		return nil, err
	}

	scratch := r.cfg.Paths.ScratchDir
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, services.Wrap(services.ErrUnknown, "stage", "create scratch root", "", err)
	}

	// One job in flight per source bucket. Concurrent triggers would race on
	// "latest" selection and on scratch paths.
	lease := flock.New(filepath.Join(scratch, r.cfg.Storage.SourceBucket+".lock"))
	locked, err := lease.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrUnknown, "lease", "acquire", "", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrUnknown, "lease", "acquire", "another job holds the source bucket lease", nil)
	}
	defer func() { _ = lease.Unlock() }()

	srcBucket := r.cfg.Storage.SourceBucket
	dstBucket := r.cfg.Storage.DestinationBucket

	objects, err := r.store.List(ctx, srcBucket)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "select", "list", srcBucket, err)
	}
	selected, ok := SelectLatest(objects)
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "select", "", "source bucket is empty", nil)
	}

	base := BaseName(selected.Key)
	log.Info("selected file for processing",
		logging.String("source", srcBucket+"/"+selected.Key),
		logging.String("base", base),
	)

	r.ledgerBegin(ctx, log, jobID, selected.Key, base)
	outcome, err := r.process(ctx, log, selected.Key, base, srcBucket, dstBucket)
	r.ledgerFinish(ctx, log, jobID, outcome, err)
	return outcome, err
}

// process runs everything downstream of selection. Archiving happens before
// any transcode work so a failed job still leaves the raw asset recoverable.
func (r *Runner) process(ctx context.Context, log *slog.Logger, sourceKey, base, srcBucket, dstBucket string) (*jobOutcome, error) {
	archiveKey := base + "/original/" + sourceKey
	if err := r.store.Copy(ctx, srcBucket, sourceKey, dstBucket, archiveKey); err != nil {
		return nil, services.Wrap(services.ErrStorage, "archive", "copy", archiveKey, err)
	}
	log.Info("original archived", logging.String("key", archiveKey))

	ws, err := staging.NewWorkspace(r.cfg.Paths.ScratchDir, base, sourceKey)
	if err != nil {
		return nil, services.Wrap(services.ErrUnknown, "stage", "create workspace", "", err)
	}
	defer ws.Release(log)

	if err := r.store.Download(ctx, srcBucket, sourceKey, ws.SourcePath); err != nil {
		return nil, services.Wrap(services.ErrStorage, "stage", "download", sourceKey, err)
	}

	if err := r.enc.Transcode(ctx, ws.SourcePath, ws.DashDir); err != nil {
		return nil, err
	}
	log.Info("dash package generated", logging.String("dir", ws.DashDir))

	dashPrefix := base + "/dash/"
	if err := r.store.UploadDir(ctx, dstBucket, ws.DashDir, dashPrefix); err != nil {
		return nil, services.Wrap(services.ErrStorage, "upload", "dash", dashPrefix, err)
	}

	if err := r.enc.Thumbnail(ctx, ws.SourcePath, ws.ThumbnailPath); err != nil {
		return nil, err
	}
	thumbKey := base + "/thumbnail/" + base + ".jpg"
	if err := r.store.Upload(ctx, dstBucket, ws.ThumbnailPath, thumbKey); err != nil {
		return nil, services.Wrap(services.ErrStorage, "upload", "thumbnail", thumbKey, err)
	}

	if err := ws.EnsureTextDir(); err != nil {
		log.Warn("text scratch dir not created", logging.Error(err))
	}

	if err := r.publisher.PublishCompletion(ctx, base); err != nil {
		return nil, services.Wrap(services.ErrNotify, "notify", "publish", base, err)
	}
	log.Info("completion notification published", logging.String("base", base))

	return &jobOutcome{
		sourceKey:  sourceKey,
		baseName:   base,
		outputPath: dashPrefix,
	}, nil
}

func (r *Runner) ledgerBegin(ctx context.Context, log *slog.Logger, jobID, sourceKey, base string) {
	if r.ledger == nil {
		return
	}
	if err := r.ledger.Begin(ctx, jobID, sourceKey, base); err != nil {
		log.Warn("job ledger insert failed", logging.Error(err))
	}
}

func (r *Runner) ledgerFinish(ctx context.Context, log *slog.Logger, jobID string, outcome *jobOutcome, runErr error) {
	if r.ledger == nil {
		return
	}
	status := joblog.StatusCompleted
	outputPath := ""
	detail := ""
	if runErr != nil {
		status = joblog.StatusFailed
		detail = runErr.Error()
	} else if outcome != nil {
		outputPath = outcome.outputPath
	}
	if err := r.ledger.Finish(ctx, jobID, status, outputPath, detail); err != nil {
		log.Warn("job ledger update failed", logging.Error(err))
	}
}
