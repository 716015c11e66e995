package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hestonauto/appraise-backend/internal/config"
	"github.com/rs/zerolog"
)

// ErrLookupUnavailable is returned when no lookup endpoint is configured.
var ErrLookupUnavailable = errors.New("registration lookup not configured")

// ProviderError carries the upstream provider's own error message, which is
// deliberately relayed to the client.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// LookupService proxies vehicle registration lookups to the DVLA provider.
type LookupService struct {
	endpoint string
	apiKey   string
	client   *http.Client
	log      zerolog.Logger
}

// NewLookupService creates a new LookupService.
func NewLookupService(cfg *config.Config, log zerolog.Logger) *LookupService {
	return &LookupService{
		endpoint: cfg.DVLAEndpoint,
		apiKey:   cfg.DVLAAPIKey,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log.With().Str("component", "lookup_service").Logger(),
	}
}

// Lookup normalizes the registration (trim, uppercase), forwards it to the
// provider and relays the provider's success payload verbatim. Provider
// rejections come back as *ProviderError; transport and parse failures as
// ordinary errors.
func (s *LookupService) Lookup(ctx context.Context, reg string) (json.RawMessage, error) {
	if s.endpoint == "" {
		return nil, ErrLookupUnavailable
	}

	normalized := strings.ToUpper(strings.TrimSpace(reg))

	body, err := json.Marshal(map[string]string{"registrationNumber": normalized})
	if err != nil {
		return nil, fmt.Errorf("marshal lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read lookup response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var pe struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &pe)
		if pe.Message == "" {
			pe.Message = "DVLA API error"
		}
		s.log.Warn().Int("status", resp.StatusCode).Str("reg", normalized).Msg("Provider rejected lookup")
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: pe.Message}
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid provider response body")
	}
	return data, nil
}
