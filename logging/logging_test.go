package logging

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInitLoggerConsoleOnly(t *testing.T) {
	InitLogger("")

	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		t.Fatal("InitLogger should set the default logging service")
	}

	// Must not panic
	Info("info message", "key", "value")
	Warn("warn message")
	Error("error message")
	Debug("debug message")
}

func TestHelpersBeforeInit(t *testing.T) {
	saved := DefaultLoggingService
	DefaultLoggingService = nil
	defer func() { DefaultLoggingService = saved }()

	// Helpers fall back to console logging without panicking
	Info("fallback info")
	Warn("fallback warn")
	Error("fallback error")
	Debug("fallback debug")
}

func TestRotatingLoggerWritesWeeklyFile(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1)
	defer func() {
		close(rl.cleanupDone)
		_ = rl.Close()
	}()

	if _, err := rl.Write([]byte("log line\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	expected := filepath.Join(dir, "labels-"+weekKey(time.Now())+".log")
	content, err := os.ReadFile(expected)
	if err != nil {
		t.Fatalf("Expected weekly log file %s: %v", expected, err)
	}
	if !strings.Contains(string(content), "log line") {
		t.Errorf("Log file missing written content: %q", content)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1)
	defer func() {
		close(rl.cleanupDone)
		_ = rl.Close()
	}()

	oldFile := filepath.Join(dir, "labels-2020-W01.log")
	if err := os.WriteFile(oldFile, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-30 * 24 * time.Hour)
	if err := os.Chtimes(oldFile, past, past); err != nil {
		t.Fatal(err)
	}

	if err := rl.cleanupOldLogs(); err != nil {
		t.Fatalf("cleanupOldLogs failed: %v", err)
	}

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("Expected stale log file to be removed")
	}
}

func TestLoggingMiddlewareSkipsHealth(t *testing.T) {
	logger := SetupLogger("")

	called := false
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/health", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("Middleware should pass /health through to the handler")
	}
}

func TestLoggingMiddlewareRecordsStatus(t *testing.T) {
	logger := SetupLogger("")

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/labels/resolve/x/y", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status passthrough 404, got %d", rec.Code)
	}
	if rec.Body.String() != "missing" {
		t.Errorf("Expected body passthrough, got %q", rec.Body.String())
	}
}
