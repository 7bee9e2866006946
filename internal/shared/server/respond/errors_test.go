package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorWritesEnvelopeAndAborts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	reached := false
	router.GET("/x", func(c *gin.Context) {
		Error(c, http.StatusUnprocessableEntity, "missing_file", "Upload a resume first.", gin.H{"page": "generate"})
	}, func(c *gin.Context) {
		reached = true
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	if reached {
		t.Fatalf("expected chain to abort")
	}
	var body ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "missing_file" || body.Error.Message != "Upload a resume first." {
		t.Fatalf("unexpected body: %+v", body)
	}
	details, ok := body.Error.Details.(map[string]any)
	if !ok || details["page"] != "generate" {
		t.Fatalf("unexpected details: %#v", body.Error.Details)
	}
}
