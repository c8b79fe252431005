package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLoggingCapturesStatusAndRoute(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	})

	rr := httptest.NewRecorder()
	Logging(m)(mux).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/accounts/A1", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
	got, err := testutil.GatherAndCount(reg, "ledger_http_request_duration_seconds")
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected one latency series, got %d", got)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log entry %q: %v", buf.String(), err)
	}
	if entry["route"] != "GET /accounts/{id}" {
		t.Fatalf("expected route pattern, got %v", entry["route"])
	}
	if entry["status"] != float64(http.StatusNotFound) {
		t.Fatalf("expected logged status 404, got %v", entry["status"])
	}
}

func TestLoggingLabelsUnmatchedRequests(t *testing.T) {
	logger.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	rr := httptest.NewRecorder()
	Logging(nil)(http.NewServeMux()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}
