package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newWebRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler().RegisterRoutes(r.Group(""))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestIndex(t *testing.T) {
	w := get(newWebRouter(), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type: %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Metropolia Course FAQ Assistant") {
		t.Error("page title missing from index")
	}
}

func TestScript_MirrorsServerValidation(t *testing.T) {
	w := get(newWebRouter(), "/static/app.js")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()

	// The browser-side checks must carry the exact server messages and
	// limits so users see identical feedback without a round trip.
	for _, want := range []string{
		"Please provide lecture text.",
		"Please enter a question.",
		"Lecture text is too short. Please provide more content.",
		"Question is too short. Please be more specific.",
		"TEXT_MAX_LENGTH = 5000",
		"QUESTION_MAX_LENGTH = 300",
		"TEXT_MIN_LENGTH = 20",
		"QUESTION_MIN_LENGTH = 3",
		`HISTORY_KEY = "faq_history"`,
		"HISTORY_MAX = 10",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("app.js missing %q", want)
		}
	}
}

func TestStyles(t *testing.T) {
	w := get(newWebRouter(), "/static/style.css")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Errorf("unexpected content type: %q", ct)
	}
}
