package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hestonauto/appraise-backend/internal/config"
	"github.com/hestonauto/appraise-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDVLARouter(endpoint string) *gin.Engine {
	cfg := &config.Config{DVLAEndpoint: endpoint, DVLAAPIKey: "k"}
	h := NewDVLAHandler(service.NewLookupService(cfg, zerolog.Nop()))

	r := gin.New()
	r.POST("/api/dvla/lookup", h.Lookup)
	return r
}

func TestDVLALookupHandler(t *testing.T) {
	t.Parallel()

	t.Run("relays provider payload verbatim", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, `{"registrationNumber":"AB12CDE","make":"FORD"}`)
		}))
		defer srv.Close()

		w := postJSON(newDVLARouter(srv.URL), "/api/dvla/lookup", `{"reg":"ab12cde"}`)
		require.Equal(t, http.StatusOK, w.Code)

		env := parseBody(t, w)
		assert.JSONEq(t, `{"registrationNumber":"AB12CDE","make":"FORD"}`, string(env.Data))
	})

	t.Run("provider rejection surfaces its message", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"message":"Vehicle Not Found"}`)
		}))
		defer srv.Close()

		w := postJSON(newDVLARouter(srv.URL), "/api/dvla/lookup", `{"reg":"ZZ99ZZZ"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		env := parseBody(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "LOOKUP_FAILED", env.Error.Code)
		assert.Equal(t, "Vehicle Not Found", env.Error.Message)
	})

	t.Run("missing registration rejected", func(t *testing.T) {
		t.Parallel()
		w := postJSON(newDVLARouter("http://unused.example"), "/api/dvla/lookup", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("unconfigured endpoint is an internal error", func(t *testing.T) {
		t.Parallel()
		w := postJSON(newDVLARouter(""), "/api/dvla/lookup", `{"reg":"AB12CDE"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "LOOKUP_FAILED")
	})
}
