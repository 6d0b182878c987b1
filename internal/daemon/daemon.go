package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"vodpress/internal/config"
	"vodpress/internal/joblog"
	"vodpress/internal/logging"
	"vodpress/internal/pipeline"
)

const maxTriggerBytes = 1 << 20

// JobRunner executes one pipeline job for a trigger payload.
type JobRunner interface {
	Run(ctx context.Context, payload []byte) pipeline.Result
}

// History exposes the invocation ledger to the API.
type History interface {
	Recent(ctx context.Context, limit int) ([]joblog.Record, error)
}

// Daemon serves the trigger API: one POST starts one job, synchronously.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	runner JobRunner
	ledger History

	server   *http.Server
	listener net.Listener
	started  time.Time
}

// New constructs a daemon with initialized dependencies. The ledger may be
// nil, in which case history requests report an empty list.
func New(cfg *config.Config, runner JobRunner, ledger History, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || runner == nil {
		return nil, errors.New("daemon requires config and runner")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	d := &Daemon{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "daemon"),
		runner: runner,
		ledger: ledger,
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/jobs", d.handleTrigger).Methods(http.MethodPost)
	router.HandleFunc("/api/jobs", d.handleHistory).Methods(http.MethodGet)
	router.HandleFunc("/api/status", d.handleStatus).Methods(http.MethodGet)

	d.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return d, nil
}

// Handler exposes the router for tests.
func (d *Daemon) Handler() http.Handler {
	return d.server.Handler
}

// Start binds the API listener and serves until ctx is cancelled.
func (d *Daemon) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", d.cfg.Paths.APIBind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	d.listener = listener
	d.started = time.Now()

	go func() {
		if err := d.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		d.Close()
	}()

	d.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Close shuts the API server down gracefully.
func (d *Daemon) Close() {
	if d.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = d.server.Shutdown(shutdownCtx)
	}
	if d.listener != nil {
		_ = d.listener.Close()
		d.listener = nil
	}
}

func (d *Daemon) handleTrigger(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxTriggerBytes))
	if err != nil {
		d.writeJSON(w, http.StatusBadRequest, pipeline.Result{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid input. JSON body required.",
			Error:      err.Error(),
		})
		return
	}

	res := d.runner.Run(r.Context(), payload)
	d.writeJSON(w, res.StatusCode, res)
}

type statusResponse struct {
	Running           bool   `json:"running"`
	UptimeSeconds     int64  `json:"uptimeSeconds"`
	SourceBucket      string `json:"sourceBucket"`
	DestinationBucket string `json:"destinationBucket"`
}

func (d *Daemon) handleStatus(w http.ResponseWriter, r *http.Request) {
	uptime := int64(0)
	if !d.started.IsZero() {
		uptime = int64(time.Since(d.started).Seconds())
	}
	d.writeJSON(w, http.StatusOK, statusResponse{
		Running:           true,
		UptimeSeconds:     uptime,
		SourceBucket:      d.cfg.Storage.SourceBucket,
		DestinationBucket: d.cfg.Storage.DestinationBucket,
	})
}

type historyEntry struct {
	ID          string `json:"id"`
	SourceKey   string `json:"sourceKey"`
	BaseName    string `json:"baseName"`
	Status      string `json:"status"`
	OutputPath  string `json:"outputPath,omitempty"`
	ErrorDetail string `json:"errorDetail,omitempty"`
	StartedAt   string `json:"startedAt"`
	FinishedAt  string `json:"finishedAt,omitempty"`
}

func (d *Daemon) handleHistory(w http.ResponseWriter, r *http.Request) {
	if d.ledger == nil {
		d.writeJSON(w, http.StatusOK, []historyEntry{})
		return
	}
	records, err := d.ledger.Recent(r.Context(), 50)
	if err != nil {
		d.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	entries := make([]historyEntry, 0, len(records))
	for _, rec := range records {
		entry := historyEntry{
			ID:          rec.ID,
			SourceKey:   rec.SourceKey,
			BaseName:    rec.BaseName,
			Status:      string(rec.Status),
			OutputPath:  rec.OutputPath,
			ErrorDetail: rec.ErrorDetail,
			StartedAt:   rec.StartedAt.UTC().Format(time.RFC3339),
		}
		if !rec.FinishedAt.IsZero() {
			entry.FinishedAt = rec.FinishedAt.UTC().Format(time.RFC3339)
		}
		entries = append(entries, entry)
	}
	d.writeJSON(w, http.StatusOK, entries)
}

func (d *Daemon) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		d.logger.Error("write response", logging.Error(err))
	}
}
