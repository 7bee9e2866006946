package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-formatter/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.Init("info", &buf)
	t.Cleanup(func() { telemetry.Init("info", os.Stdout) })

	router := gin.New()
	router.Use(RequestID(), Session("resume_session", false), Logging())
	router.POST("/test", func(c *gin.Context) {
		c.Set("jobId", "job-1")
		SetStatusTransition(c, "uploading", "generating")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.Header.Set("X-Session-Id", "s1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v (%q)", err, last)
	}

	required := []string{"request_id", "session_id", "job_id", "duration_ms", "status", "status_transition"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["session_id"] != "s1" {
		t.Fatalf("unexpected session_id: %v", payload["session_id"])
	}
	if payload["job_id"] != "job-1" {
		t.Fatalf("unexpected job_id: %v", payload["job_id"])
	}
	if payload["status_transition"] != "uploading->generating" {
		t.Fatalf("unexpected status_transition: %v", payload["status_transition"])
	}
	if payload["request_id"] == "" || resp.Header().Get("X-Request-Id") != payload["request_id"] {
		t.Fatalf("request id mismatch: header=%q log=%v", resp.Header().Get("X-Request-Id"), payload["request_id"])
	}
}

func TestRecoveryReturnsStandardError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	telemetry.Init("info", &buf)
	t.Cleanup(func() { telemetry.Init("info", os.Stdout) })

	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Code != "internal_error" {
		t.Fatalf("expected internal_error code, got %q", body.Error.Code)
	}
	if !strings.Contains(buf.String(), "kaboom") {
		t.Fatalf("expected panic logged, got %q", buf.String())
	}
}

func TestRequestIDReplacesUnprintableHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set("X-Request-Id", "has space")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if got := resp.Body.String(); got == "has space" || len(got) != 36 {
		t.Fatalf("expected generated uuid, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set("X-Request-Id", "edge-42")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if got := resp.Body.String(); got != "edge-42" {
		t.Fatalf("expected caller id kept, got %q", got)
	}
}
