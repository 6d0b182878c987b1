package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vodpress/internal/config"
	"vodpress/internal/joblog"
	"vodpress/internal/logging"
	"vodpress/internal/objectstore"
	"vodpress/internal/pipeline"
)

type fakeStore struct {
	objects []objectstore.ObjectInfo
	listErr error
	copyErr error

	copies     []string
	downloads  []string
	uploads    []string
	dirUploads []string
}

func (f *fakeStore) List(ctx context.Context, bucket string) ([]objectstore.ObjectInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.objects, nil
}

func (f *fakeStore) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	if f.copyErr != nil {
		return f.copyErr
	}
	f.copies = append(f.copies, dstBucket+"/"+dstKey)
	return nil
}

func (f *fakeStore) Download(ctx context.Context, bucket, key, localPath string) error {
	f.downloads = append(f.downloads, bucket+"/"+key)
	return os.WriteFile(localPath, []byte("raw video"), 0o644)
}

func (f *fakeStore) Upload(ctx context.Context, bucket, localPath, key string) error {
	if _, err := os.Stat(localPath); err != nil {
		return err
	}
	f.uploads = append(f.uploads, bucket+"/"+key)
	return nil
}

func (f *fakeStore) UploadDir(ctx context.Context, bucket, localDir, prefix string) error {
	entries, err := os.ReadDir(localDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		f.uploads = append(f.uploads, bucket+"/"+objectstore.JoinKey(prefix, entry.Name()))
	}
	f.dirUploads = append(f.dirUploads, bucket+"/"+prefix)
	return nil
}

type fakeEncoder struct {
	transcodeErr error
	thumbErr     error
	transcodes   int
	thumbnails   int
}

func (f *fakeEncoder) Transcode(ctx context.Context, inputPath, outputDir string) error {
	if f.transcodeErr != nil {
		return f.transcodeErr
	}
	f.transcodes++
	for _, name := range []string{"manifest.mpd", "init-0.mp4", "segment-0-1.m4s"} {
		if err := os.WriteFile(filepath.Join(outputDir, name), []byte("media"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeEncoder) Thumbnail(ctx context.Context, inputPath, outputPath string) error {
	if f.thumbErr != nil {
		return f.thumbErr
	}
	f.thumbnails++
	return os.WriteFile(outputPath, []byte("jpeg"), 0o644)
}

type fakePublisher struct {
	err       error
	published []string
}

func (f *fakePublisher) PublishCompletion(ctx context.Context, baseName string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, baseName)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeLedger struct {
	begun    []string
	finished map[string]joblog.Status
}

func (f *fakeLedger) Begin(ctx context.Context, id, sourceKey, baseName string) error {
	f.begun = append(f.begun, baseName)
	return nil
}

func (f *fakeLedger) Finish(ctx context.Context, id string, status joblog.Status, outputPath, errorDetail string) error {
	if f.finished == nil {
		f.finished = make(map[string]joblog.Status)
	}
	f.finished[id] = status
	return nil
}

type harness struct {
	cfg       *config.Config
	store     *fakeStore
	enc       *fakeEncoder
	publisher *fakePublisher
	ledger    *fakeLedger
	runner    *pipeline.Runner
}

func newHarness(t *testing.T, objects []objectstore.ObjectInfo) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.ScratchDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()

	h := &harness{
		cfg:       &cfg,
		store:     &fakeStore{objects: objects},
		enc:       &fakeEncoder{},
		publisher: &fakePublisher{},
		ledger:    &fakeLedger{},
	}
	h.runner = pipeline.NewRunner(h.cfg, h.store, h.publisher, h.enc, h.ledger, logging.NewNop())
	return h
}

func sourceObject(key string) []objectstore.ObjectInfo {
	return []objectstore.ObjectInfo{
		{Key: key, CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}

func TestRunEndToEndSuccess(t *testing.T) {
	h := newHarness(t, sourceObject("movie.mp4"))

	res := h.runner.Run(context.Background(), []byte(`{"trigger":"manual"}`))

	if res.StatusCode != 200 {
		t.Fatalf("status %d, want 200 (error=%q)", res.StatusCode, res.Error)
	}
	if res.OutputPath != "movie/dash/" {
		t.Fatalf("outputPath %q, want movie/dash/", res.OutputPath)
	}
	if !strings.Contains(res.Message, "movie.mp4") {
		t.Fatalf("message %q does not reference the source object", res.Message)
	}

	if !contains(h.store.copies, "vodprocessedgcp/movie/original/movie.mp4") {
		t.Fatalf("original not archived, copies: %v", h.store.copies)
	}
	for _, want := range []string{
		"vodprocessedgcp/movie/dash/manifest.mpd",
		"vodprocessedgcp/movie/dash/init-0.mp4",
		"vodprocessedgcp/movie/dash/segment-0-1.m4s",
		"vodprocessedgcp/movie/thumbnail/movie.jpg",
	} {
		if !contains(h.store.uploads, want) {
			t.Errorf("missing upload %q, uploads: %v", want, h.store.uploads)
		}
	}

	if len(h.publisher.published) != 1 || h.publisher.published[0] != "movie" {
		t.Fatalf("expected exactly one notification for movie, got %v", h.publisher.published)
	}

	for _, gone := range []string{"movie_dash", "movie_txt", "movie.jpg", "movie.mp4"} {
		if _, err := os.Stat(filepath.Join(h.cfg.Paths.ScratchDir, gone)); !os.IsNotExist(err) {
			t.Errorf("scratch path %s should be removed, stat err=%v", gone, err)
		}
	}

	if len(h.ledger.finished) != 1 {
		t.Fatalf("expected one ledger finish, got %v", h.ledger.finished)
	}
	for _, status := range h.ledger.finished {
		if status != joblog.StatusCompleted {
			t.Fatalf("ledger status %q, want completed", status)
		}
	}
}

func TestRunEmptyBucketReturns404WithoutSideEffects(t *testing.T) {
	h := newHarness(t, nil)

	res := h.runner.Run(context.Background(), []byte(`{"trigger":"manual"}`))

	if res.StatusCode != 404 {
		t.Fatalf("status %d, want 404", res.StatusCode)
	}
	if res.Message != "No files found in source bucket." {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if len(h.store.copies) != 0 || h.enc.transcodes != 0 || len(h.publisher.published) != 0 {
		t.Fatal("expected no archive, transcode, or notify side effects")
	}
}

func TestRunInvalidPayloadReturns400BeforeStorage(t *testing.T) {
	h := newHarness(t, sourceObject("movie.mp4"))

	for _, payload := range []string{"", "{}", "not json"} {
		res := h.runner.Run(context.Background(), []byte(payload))
		if res.StatusCode != 400 {
			t.Fatalf("payload %q: status %d, want 400", payload, res.StatusCode)
		}
		if res.Message != "Invalid input. JSON body required." {
			t.Fatalf("payload %q: unexpected message %q", payload, res.Message)
		}
	}
	if len(h.store.downloads) != 0 {
		t.Fatal("invalid payloads must not reach storage")
	}
}

func TestRunTranscodeFailureKeepsArchive(t *testing.T) {
	h := newHarness(t, sourceObject("movie.mp4"))
	h.enc.transcodeErr = errors.New("exit status 1")

	res := h.runner.Run(context.Background(), []byte(`{"trigger":"manual"}`))

	if res.StatusCode != 500 {
		t.Fatalf("status %d, want 500", res.StatusCode)
	}
	if res.Message != "Internal server error." {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if res.Error == "" {
		t.Fatal("expected error detail in response")
	}

	// Archive-first ordering: the original survives the failed transcode.
	if !contains(h.store.copies, "vodprocessedgcp/movie/original/movie.mp4") {
		t.Fatalf("archive missing after transcode failure, copies: %v", h.store.copies)
	}
	for _, uploaded := range h.store.uploads {
		if strings.Contains(uploaded, "/dash/") {
			t.Fatalf("no DASH artifacts should upload after failure, got %v", h.store.uploads)
		}
	}
	if len(h.publisher.published) != 0 {
		t.Fatal("no notification should publish after failure")
	}

	// Scratch is released on the failure path too.
	for _, gone := range []string{"movie_dash", "movie.mp4"} {
		if _, err := os.Stat(filepath.Join(h.cfg.Paths.ScratchDir, gone)); !os.IsNotExist(err) {
			t.Errorf("scratch path %s should be removed after failure, stat err=%v", gone, err)
		}
	}

	for _, status := range h.ledger.finished {
		if status != joblog.StatusFailed {
			t.Fatalf("ledger status %q, want failed", status)
		}
	}
}

func TestRunNotifyFailureSurfacesAfterUpload(t *testing.T) {
	h := newHarness(t, sourceObject("movie.mp4"))
	h.publisher.err = errors.New("connection refused")

	res := h.runner.Run(context.Background(), []byte(`{"trigger":"manual"}`))

	if res.StatusCode != 500 {
		t.Fatalf("status %d, want 500", res.StatusCode)
	}
	// Artifacts stay correctly placed; only the downstream signal is lost.
	if !contains(h.store.uploads, "vodprocessedgcp/movie/thumbnail/movie.jpg") {
		t.Fatalf("uploads incomplete before notify failure: %v", h.store.uploads)
	}
}

func TestRunStorageListFailureReturns500(t *testing.T) {
	h := newHarness(t, sourceObject("movie.mp4"))
	h.store.listErr = errors.New("timeout")

	res := h.runner.Run(context.Background(), []byte(`{"trigger":"manual"}`))
	if res.StatusCode != 500 {
		t.Fatalf("status %d, want 500", res.StatusCode)
	}
	if !strings.Contains(res.Error, "storage error") {
		t.Fatalf("error detail %q should carry the storage class", res.Error)
	}
}
