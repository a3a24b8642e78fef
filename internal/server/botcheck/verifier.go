// Package botcheck verifies client-supplied challenge tokens against an
// external siteverify-style provider before signup and login proceed.
//
// The gate is fail-closed: a provider that is unreachable, slow or answers
// with anything unexpected blocks the request.
package botcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/loadout/internal/common"
)

// Verifier confirms that a challenge token was solved by a human.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// HTTPVerifier posts the token to a siteverify endpoint.
type HTTPVerifier struct {
	url    string
	secret string
	client *http.Client
}

// NewHTTPVerifier creates a verifier for endpoint. A nil client gets one
// bounded by timeout.
func NewHTTPVerifier(endpoint, secret string, timeout time.Duration, client *http.Client) *HTTPVerifier {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPVerifier{url: endpoint, secret: secret, client: client}
}

// Verify returns nil only when the provider reports success. A negative
// verdict wraps common.ErrorUnauthorized and carries the provider's error
// codes; transport failures are returned as plain errors.
func (v *HTTPVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build bot check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("bot check request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bot check returned %s", resp.Status)
	}

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode bot check response: %w", err)
	}

	if !result.Success {
		if len(result.ErrorCodes) == 0 {
			return fmt.Errorf("%w: bot verification failed", common.ErrorUnauthorized)
		}
		return fmt.Errorf("%w: bot verification failed: %s", common.ErrorUnauthorized, strings.Join(result.ErrorCodes, ", "))
	}
	return nil
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, token, remoteIP string) error

func (f VerifierFunc) Verify(ctx context.Context, token, remoteIP string) error {
	return f(ctx, token, remoteIP)
}
