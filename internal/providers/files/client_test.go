package files

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"adgen/internal/domain"
)

func TestUpload(t *testing.T) {
	payload := []byte("png-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files" {
			t.Errorf("path mismatch: %s", r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form field %q missing: %v", "file", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "product.png" {
			t.Errorf("filename mismatch: %s", header.Filename)
		}
		got, _ := io.ReadAll(file)
		if !bytes.Equal(got, payload) {
			t.Errorf("payload mismatch: %q", got)
		}
		json.NewEncoder(w).Encode(uploadResponse{FileID: 9})
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL})
	fileID, err := client.Upload(context.Background(), "product.png", payload)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if fileID != 9 {
		t.Fatalf("file id mismatch: got %d want 9", fileID)
	}
}

func TestUploadEmptyPayload(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://unused"})
	_, err := client.Upload(context.Background(), "product.png", nil)
	if !errors.Is(err, domain.ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
}

func TestUploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "disk full", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL})
	_, err := client.Upload(context.Background(), "product.png", []byte("x"))
	if !errors.Is(err, domain.ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
}

func TestUploadMissingFileID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(uploadResponse{Message: "stored"})
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL})
	_, err := client.Upload(context.Background(), "product.png", []byte("x"))
	if !errors.Is(err, domain.ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
}
