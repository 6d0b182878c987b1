package services_test

import (
	"errors"
	"net/http"
	"testing"

	"vodpress/internal/services"
)

func TestWrapTagsMarkerAndDetail(t *testing.T) {
	underlying := errors.New("exit status 1")
	err := services.Wrap(services.ErrEncoding, "transcode", "ffmpeg", "dash packaging", underlying)
	if !errors.Is(err, services.ErrEncoding) {
		t.Fatalf("expected error tagged with ErrEncoding, got %v", err)
	}
	if !errors.Is(err, underlying) {
		t.Fatalf("expected wrapped underlying error, got %v", err)
	}
	want := "encoding error: transcode: ffmpeg: dash packaging: exit status 1"
	if err.Error() != want {
		t.Fatalf("unexpected message %q, want %q", err.Error(), want)
	}
}

func TestWrapDefaultsToUnknownMarker(t *testing.T) {
	err := services.Wrap(nil, "select", "", "", nil)
	if !errors.Is(err, services.ErrUnknown) {
		t.Fatalf("expected ErrUnknown tag, got %v", err)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid request", services.Wrap(services.ErrInvalidRequest, "trigger", "", "empty payload", nil), http.StatusBadRequest},
		{"not found", services.Wrap(services.ErrNotFound, "select", "", "empty bucket", nil), http.StatusNotFound},
		{"storage", services.Wrap(services.ErrStorage, "archive", "copy", "", errors.New("timeout")), http.StatusInternalServerError},
		{"encoding", services.ErrEncoding, http.StatusInternalServerError},
		{"notify", services.ErrNotify, http.StatusInternalServerError},
		{"untagged", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestUserMessageIdentifiesFailureClassOnly(t *testing.T) {
	err := services.Wrap(services.ErrStorage, "upload", "dash", "", errors.New("connection reset"))
	if msg := services.UserMessage(err); msg != "Internal server error." {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg := services.UserMessage(services.ErrNotFound); msg != "No files found in source bucket." {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg := services.UserMessage(nil); msg != "" {
		t.Fatalf("expected empty message for nil error, got %q", msg)
	}
}
