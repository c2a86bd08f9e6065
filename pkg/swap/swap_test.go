package swap

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestSwapFace_Success(t *testing.T) {
	swapped := []byte("swapped-jpeg-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/swap-face/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %q", r.Method)
		}

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("failed to parse multipart body: %v", err)
		}
		if r.FormValue("name") != "Ava" {
			t.Errorf("name field = %q, want Ava", r.FormValue("name"))
		}
		if r.FormValue("email") != "a@x.com" {
			t.Errorf("email field = %q, want a@x.com", r.FormValue("email"))
		}

		for _, field := range []string{"sourceImage", "targetImage"} {
			file, _, err := r.FormFile(field)
			if err != nil {
				t.Fatalf("missing %s file part: %v", field, err)
			}
			data, _ := io.ReadAll(file)
			file.Close()
			if len(data) == 0 {
				t.Errorf("%s part is empty", field)
			}
		}

		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(swapped)
	}))
	defer server.Close()

	client := NewWithBaseURL(server.URL, newTestLogger())
	result, err := client.SwapFace(context.Background(), SwapRequest{
		SourceImage: []byte("source-bytes"),
		TargetImage: []byte("target-bytes"),
		Name:        "Ava",
		Email:       "a@x.com",
	})
	if err != nil {
		t.Fatalf("SwapFace returned error: %v", err)
	}
	if string(result) != string(swapped) {
		t.Errorf("unexpected swapped payload %q", result)
	}
}

func TestSwapFace_RemoteFailureCarriesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"model timeout"}`))
	}))
	defer server.Close()

	client := NewWithBaseURL(server.URL, newTestLogger())
	_, err := client.SwapFace(context.Background(), SwapRequest{
		SourceImage: []byte("source"),
		TargetImage: []byte("target"),
		Name:        "Ava",
		Email:       "a@x.com",
	})

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	if svcErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", svcErr.StatusCode)
	}
	if svcErr.Detail != "model timeout" {
		t.Errorf("detail = %q, want %q", svcErr.Detail, "model timeout")
	}
}

func TestFetchAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/templates/female-03.jpg" {
			w.Write([]byte("template-bytes"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewWithBaseURL(server.URL, newTestLogger())

	data, err := client.FetchAsset(context.Background(), server.URL+"/templates/female-03.jpg")
	if err != nil {
		t.Fatalf("FetchAsset returned error: %v", err)
	}
	if string(data) != "template-bytes" {
		t.Errorf("unexpected asset payload %q", data)
	}

	if _, err := client.FetchAsset(context.Background(), server.URL+"/missing.jpg"); err == nil {
		t.Error("expected error for missing asset")
	}
}
