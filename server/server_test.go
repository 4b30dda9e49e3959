package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nicholasnlawson/dispensingpwa/config"
	"github.com/nicholasnlawson/dispensingpwa/data"
	"github.com/nicholasnlawson/dispensingpwa/handlers"
	"github.com/nicholasnlawson/dispensingpwa/health"
	"github.com/nicholasnlawson/dispensingpwa/interfaces"
	"github.com/nicholasnlawson/dispensingpwa/logging"
	"github.com/nicholasnlawson/dispensingpwa/shorthand"
	"github.com/nicholasnlawson/dispensingpwa/validation"
	"github.com/nicholasnlawson/dispensingpwa/warnings"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:           "8080",
		Address:        "localhost",
		Env:            "test",
		LogLevel:       "info",
		MaxRequestBody: 1048576,
		MaxHeaderSize:  1048576,
	}
}

func testServer() *Server {
	logging.InitLogger("")

	medications := []warnings.MedicationRecord{
		{Name: "Amoxicillin", Aliases: []string{"Amoxil"}},
	}
	entries := []warnings.WarningEntry{
		{Names: []string{"Amoxicillin"}, Formulations: []string{"Capsule"}, LabelNumbers: []int{9}},
	}
	catalog := []warnings.WarningLabel{
		{Number: 9, Text: "Space the doses evenly throughout the day. Keep taking this medicine until the course is finished, unless you are told to stop."},
	}

	container := data.NewDataContainer()
	container.UpdateData(
		warnings.NewResolver(warnings.BuildIndexes(medications, entries, catalog), nil),
		shorthand.NewExpander(nil),
		&interfaces.DataQualityReport{},
	)

	validator := validation.NewDataValidator()
	checker := health.NewHealthChecker(container)
	handler := handlers.NewHTTPHandler(container, validator, checker)
	return NewServer(testConfig(), container, handler)
}

func TestNewServer(t *testing.T) {
	srv := testServer()

	if srv == nil {
		t.Fatal("Server should not be nil")
	}
	if srv.server.Addr != "localhost:8080" {
		t.Errorf("Expected localhost:8080, got %s", srv.server.Addr)
	}
	if srv.server.ReadTimeout != 15*time.Second {
		t.Errorf("Expected 15s read timeout, got %v", srv.server.ReadTimeout)
	}
}

func TestSetupRoutes(t *testing.T) {
	srv := testServer()

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"resolve labels", "/labels/resolve/Amoxicillin/Capsule", http.StatusOK},
		{"catalog", "/labels/catalog", http.StatusOK},
		{"catalog label", "/labels/catalog/9", http.StatusOK},
		{"shorthand", "/shorthand/bd", http.StatusOK},
		{"formulation", "/formulations/tablet", http.StatusOK},
		{"medications", "/medications", http.StatusOK},
		{"medication lookup", "/medications/Amoxil", http.StatusOK},
		{"health", "/health", http.StatusOK},
		{"metrics", "/metrics", http.StatusOK},
		{"unknown route", "/nonexistent", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			req.RemoteAddr = "127.0.0.1:12345"
			rr := httptest.NewRecorder()

			srv.router.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d for %s, got %d", tt.expectedStatus, tt.path, rr.Code)
			}
		})
	}
}

func TestResolveThroughRouter(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest("GET", "/labels/resolve/Amoxil/Capsule", nil)
	req.RemoteAddr = "127.0.0.1:12345"
	rr := httptest.NewRecorder()

	srv.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp handlers.ResolveResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Expected JSON body, got %v", err)
	}
	if len(resp.LabelNumbers) != 1 || resp.LabelNumbers[0] != 9 {
		t.Errorf("Expected [9], got %v", resp.LabelNumbers)
	}
}

func TestRateLimitHeaders(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest("GET", "/health", nil)
	req.RemoteAddr = "10.1.2.3:5000"
	rr := httptest.NewRecorder()

	srv.router.ServeHTTP(rr, req)

	if rr.Header().Get("X-RateLimit-Limit") != "1000" {
		t.Errorf("Expected X-RateLimit-Limit header, got %q", rr.Header().Get("X-RateLimit-Limit"))
	}
	if rr.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("Expected X-RateLimit-Remaining header")
	}
}

func TestGetHealthData(t *testing.T) {
	srv := testServer()

	healthData := srv.GetHealthData()

	if healthData.Status != "healthy" {
		t.Errorf("Expected healthy, got %s", healthData.Status)
	}
	if healthData.MedicationCount != 1 {
		t.Errorf("Expected 1 medication, got %d", healthData.MedicationCount)
	}
	if healthData.LabelCount != 1 {
		t.Errorf("Expected 1 label, got %d", healthData.LabelCount)
	}
}

func TestFormatUptimeHuman(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m 30s"},
		{time.Hour + 5*time.Minute, "1h 5m 0s"},
		{25 * time.Hour, "1d 1h 0m 0s"},
	}

	for _, tt := range tests {
		if got := formatUptimeHuman(tt.duration); got != tt.expected {
			t.Errorf("formatUptimeHuman(%v) = %q, expected %q", tt.duration, got, tt.expected)
		}
	}
}
