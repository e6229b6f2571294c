package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/course-portal-backend/internal/observability"
)

func TestMetricsLabelsRoutesAndSkipsStreams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.Init(nil)

	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/weeks/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/events", func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/api/weeks/1", "/api/weeks/2", "/api/nope", "/api/events"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`course_portal_api_requests_total{method="GET",route="/api/weeks/:id",status="200"} 2`,
		`course_portal_api_requests_total{method="GET",route="unmatched",status="404"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, `route="/api/events"`) {
		t.Fatalf("event stream should not be counted:\n%s", out)
	}
}
