// Package classifier is the HTTP client for the external phishing
// classification service. The service is treated as untrusted: slow, flaky,
// and free to return labels this package has never heard of.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single classification call.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of an upstream response body is read. A
// verdict payload is a few hundred bytes; anything near this limit is not a
// verdict.
const maxResponseBytes = 1 << 20

// Verdict is the normalized-enough upstream response. Label and confidence
// are still raw here; the prediction service owns normalization so policy
// lives in one place.
type Verdict struct {
	Label       string
	Confidence  float64
	RiskFactors []string
}

// Error is an explicit error payload from the classifier, carrying the
// upstream status code for the gateway to forward.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("classifier: upstream status %d: %s", e.StatusCode, e.Message)
}

// ErrUnavailable covers transport-level failures: connection refused, DNS,
// timeout. No response payload exists in these cases.
var ErrUnavailable = errors.New("classifier: service unavailable")

type Config struct {
	// BaseURL is the classifier service root, e.g. http://localhost:8000.
	BaseURL string
	// Timeout bounds each call; zero means DefaultTimeout.
	Timeout time.Duration
}

type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// rawVerdict tolerates a confidence delivered as number or string, and a
// label of any JSON scalar type. The upstream contract is loose; coercion
// failures degrade instead of erroring.
type rawVerdict struct {
	Prediction  json.RawMessage `json:"prediction"`
	Confidence  json.RawMessage `json:"confidence"`
	RiskFactors []string        `json:"risk_factors"`
}

type rawError struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// Classify submits url for classification. ctx bounds the call together with
// the client timeout, so an abandoned request cancels the upstream call.
func (c *Client) Classify(ctx context.Context, url string) (Verdict, error) {
	payload, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return Verdict{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return Verdict{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return Verdict{}, upstreamError(resp.StatusCode, body)
	}

	var raw rawVerdict
	if err := json.Unmarshal(body, &raw); err != nil {
		return Verdict{}, fmt.Errorf("%w: unmarshal: %v", ErrUnavailable, err)
	}

	return Verdict{
		Label:       coerceLabel(raw.Prediction),
		Confidence:  coerceConfidence(raw.Confidence),
		RiskFactors: raw.RiskFactors,
	}, nil
}

// upstreamError extracts the classifier's own message when it sent one.
func upstreamError(status int, body []byte) *Error {
	var raw rawError
	if err := json.Unmarshal(body, &raw); err == nil {
		if raw.Detail != "" {
			return &Error{StatusCode: status, Message: raw.Detail}
		}
		if raw.Message != "" {
			return &Error{StatusCode: status, Message: raw.Message}
		}
	}
	return &Error{StatusCode: status, Message: "ML service error."}
}

func coerceLabel(raw json.RawMessage) string {
	var label string
	if err := json.Unmarshal(raw, &label); err != nil {
		return ""
	}
	return label
}

// coerceConfidence accepts a JSON number or a numeric string; anything else
// becomes 0, matching the gateway contract.
func coerceConfidence(raw json.RawMessage) float64 {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if _, perr := fmt.Sscanf(s, "%g", &f); perr == nil {
			return f
		}
	}
	return 0
}
