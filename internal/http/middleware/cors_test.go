package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func preflight(r *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/api/materials", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		origins []string
		origin  string
		allowed bool
	}{
		{name: "default dev origin", origin: "http://localhost:5173", allowed: true},
		{name: "configured origin", origins: []string{"https://portal.example.com"}, origin: "https://portal.example.com", allowed: true},
		{name: "configured list replaces defaults", origins: []string{"https://portal.example.com"}, origin: "http://localhost:5173"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := gin.New()
			r.Use(CORS(tc.origins))
			r.OPTIONS("/api/materials", func(c *gin.Context) { c.Status(http.StatusNoContent) })

			rec := preflight(r, tc.origin)
			got := rec.Header().Get("Access-Control-Allow-Origin")
			if tc.allowed && got != tc.origin {
				t.Fatalf("allow-origin: got=%q want=%q (status %d)", got, tc.origin, rec.Code)
			}
			if !tc.allowed && got != "" {
				t.Fatalf("origin %q should be refused, got allow-origin %q", tc.origin, got)
			}
		})
	}
}
