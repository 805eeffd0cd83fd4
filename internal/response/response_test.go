package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFailWithError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FailWithError(c, http.StatusBadRequest, ErrValidation, "Invalid base64 PDF", "Invalid base64 PDF: illegal data")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["code"] != "VALIDATION_ERROR" || body["message"] != "Invalid base64 PDF" || body["error"] != "Invalid base64 PDF: illegal data" {
		t.Errorf("body = %v", body)
	}
}

func TestFailOmitsEmptyDetail(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, http.StatusMethodNotAllowed, ErrMethodNotAllowed)

	want := `{"code":"METHOD_NOT_ALLOWED","message":"Method not allowed"}`
	if w.Body.String() != want {
		t.Errorf("body = %s, want %s", w.Body.String(), want)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextKeyRequestID))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc" || w.Header().Get("X-Request-ID") != "abc" {
		t.Errorf("propagated id = %q / %q", w.Body.String(), w.Header().Get("X-Request-ID"))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(w.Body.String()) != 36 {
		t.Errorf("generated id = %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "bad id\nwith control")
	r.ServeHTTP(w, req)
	if len(w.Body.String()) != 36 {
		t.Errorf("malformed header id kept: %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	req = req.WithContext(WithGatewayRequestID(req.Context(), "gw-7"))
	r.ServeHTTP(w, req)
	if w.Body.String() != "gw-7" || w.Header().Get("X-Request-ID") != "gw-7" {
		t.Errorf("gateway id = %q / %q", w.Body.String(), w.Header().Get("X-Request-ID"))
	}
}
