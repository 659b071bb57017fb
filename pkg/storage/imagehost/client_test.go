package imagehost

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kunalsaini/authline-backend/pkg/config"
)

func TestUploadReturnsURLAndDeleteHandle(t *testing.T) {
	t.Parallel()

	var gotKey, gotImage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotKey = r.PostFormValue("key")
		gotImage = r.PostFormValue("image")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"url":"https://img.example/abc.png","delete_url":"https://img.example/delete/abc"},"success":true,"status":200}`))
	}))
	defer server.Close()

	client := NewClient(config.ImageHostConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, nil)

	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	result, err := client.Upload(context.Background(), "selfie.png", payload)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if result.URL != "https://img.example/abc.png" {
		t.Fatalf("unexpected url %s", result.URL)
	}
	if result.DeleteHandle != "https://img.example/delete/abc" {
		t.Fatalf("unexpected delete handle %s", result.DeleteHandle)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key not sent, got %q", gotKey)
	}
	if gotImage != base64.StdEncoding.EncodeToString(payload) {
		t.Fatalf("image payload not base64 encoded")
	}
}

func TestUploadRejectedByHost(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"status":400}`))
	}))
	defer server.Close()

	client := NewClient(config.ImageHostConfig{BaseURL: server.URL, APIKey: "k"}, nil)
	if _, err := client.Upload(context.Background(), "selfie.png", []byte{1}); err == nil {
		t.Fatal("expected error for rejected upload")
	}
}

func TestUploadRequiresAPIKey(t *testing.T) {
	t.Parallel()

	client := NewClient(config.ImageHostConfig{BaseURL: "https://img.example"}, nil)
	if client.Enabled() {
		t.Fatal("client should not be enabled without api key")
	}
	if _, err := client.Upload(context.Background(), "selfie.png", []byte{1}); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestDeleteFollowsHandle(t *testing.T) {
	t.Parallel()

	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(config.ImageHostConfig{BaseURL: server.URL, APIKey: "k"}, nil)
	if err := client.Delete(context.Background(), server.URL+"/delete/abc"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !called {
		t.Fatal("delete endpoint not called")
	}

	if err := client.Delete(context.Background(), ""); err != nil {
		t.Fatalf("empty handle should be a no-op, got %v", err)
	}
}
