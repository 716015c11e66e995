package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hestonauto/appraise-backend/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLookupService(endpoint, apiKey string) *LookupService {
	return NewLookupService(&config.Config{DVLAEndpoint: endpoint, DVLAAPIKey: apiKey}, zerolog.Nop())
}

func TestLookupSuccess(t *testing.T) {
	t.Parallel()

	const payload = `{"registrationNumber":"AB12CDE","make":"FORD","colour":"BLUE"}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "AB12CDE", req["registrationNumber"], "registration is trimmed and uppercased")

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, payload)
	}))
	defer srv.Close()

	svc := newLookupService(srv.URL, "test-key")
	data, err := svc.Lookup(context.Background(), "  ab12cde ")
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(data), "provider payload is relayed verbatim")
}

func TestLookupProviderRejection(t *testing.T) {
	t.Parallel()

	t.Run("message relayed from provider body", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"message":"Vehicle Not Found"}`)
		}))
		defer srv.Close()

		_, err := newLookupService(srv.URL, "k").Lookup(context.Background(), "ZZ99ZZZ")

		var pe *ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, http.StatusNotFound, pe.StatusCode)
		assert.Equal(t, "Vehicle Not Found", pe.Message)
	})

	t.Run("fallback message when body unparseable", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, "upstream exploded")
		}))
		defer srv.Close()

		_, err := newLookupService(srv.URL, "k").Lookup(context.Background(), "AB12CDE")

		var pe *ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "DVLA API error", pe.Message)
	})
}

func TestLookupTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // Closed before use: connection refused.

	_, err := newLookupService(srv.URL, "k").Lookup(context.Background(), "AB12CDE")
	require.Error(t, err)

	var pe *ProviderError
	assert.False(t, errors.As(err, &pe), "transport failures are not provider errors")
}

func TestLookupInvalidProviderBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "not json at all")
	}))
	defer srv.Close()

	_, err := newLookupService(srv.URL, "k").Lookup(context.Background(), "AB12CDE")
	assert.Error(t, err)
}

func TestLookupUnconfigured(t *testing.T) {
	t.Parallel()

	_, err := newLookupService("", "").Lookup(context.Background(), "AB12CDE")
	assert.ErrorIs(t, err, ErrLookupUnavailable)
}
