package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/nxscrypto/bayview-dashboard/internal/adapters/http/swagger"
)

func TestRegister(t *testing.T) {
	Convey("Given the docs routes are registered", t, func() {
		mux := http.NewServeMux()
		swagger.Register(context.Background(), mux)

		Convey("When GET /api-docs is requested", func() {
			req := httptest.NewRequest("GET", "/api-docs", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it serves the ReDoc page", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, "redoc")
			})
		})

		Convey("When GET /openapi.yaml is requested", func() {
			req := httptest.NewRequest("GET", "/openapi.yaml", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it serves the embedded spec", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "Bayview Dashboard API")
				So(w.Body.String(), ShouldContainSubstring, "/api/data")
			})
		})
	})
}
