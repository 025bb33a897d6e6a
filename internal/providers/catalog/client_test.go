package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"adgen/internal/domain"
)

func TestFirstFileID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/m-1/full-detail" {
			t.Errorf("path mismatch: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(modelDetailResponse{
			ID:    "m-1",
			Files: []modelFile{{ID: 314}, {ID: 315}},
		})
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL})
	fileID, err := client.FirstFileID(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("FirstFileID returned error: %v", err)
	}
	if fileID != 314 {
		t.Fatalf("file id mismatch: got %d want 314", fileID)
	}
}

func TestFirstFileIDNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL})
	_, err := client.FirstFileID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrModelAssetNotFound) {
		t.Fatalf("expected ErrModelAssetNotFound, got %v", err)
	}
}

func TestFirstFileIDEmptyFileList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(modelDetailResponse{ID: "m-1"})
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL})
	_, err := client.FirstFileID(context.Background(), "m-1")
	if !errors.Is(err, domain.ErrModelAssetNotFound) {
		t.Fatalf("expected ErrModelAssetNotFound, got %v", err)
	}
}
