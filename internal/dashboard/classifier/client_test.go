package classifier_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/quantumsec/phishguard/internal/dashboard/classifier"
	"github.com/stretchr/testify/require"
)

func stubServer(t *testing.T, handler http.HandlerFunc) *classifier.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return classifier.NewClient(classifier.Config{BaseURL: srv.URL})
}

func TestClassifyDecodesVerdict(t *testing.T) {
	t.Parallel()

	client := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "http://example.com", body["url"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"prediction":   "phishing",
			"confidence":   0.87,
			"risk_factors": []string{"ip-based host"},
		})
	})

	verdict, err := client.Classify(context.Background(), "http://example.com")
	require.NoError(t, err)
	require.Equal(t, "phishing", verdict.Label)
	require.InDelta(t, 0.87, verdict.Confidence, 1e-9)
	require.Equal(t, []string{"ip-based host"}, verdict.RiskFactors)
}

func TestClassifyToleratesLoosePayloads(t *testing.T) {
	t.Parallel()

	t.Run("string confidence", func(t *testing.T) {
		client := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"prediction":"phishing","confidence":"0.42"}`))
		})
		verdict, err := client.Classify(context.Background(), "http://example.com")
		require.NoError(t, err)
		require.InDelta(t, 0.42, verdict.Confidence, 1e-9)
	})

	t.Run("garbage confidence becomes zero", func(t *testing.T) {
		client := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"prediction":"phishing","confidence":{"oops":true}}`))
		})
		verdict, err := client.Classify(context.Background(), "http://example.com")
		require.NoError(t, err)
		require.Zero(t, verdict.Confidence)
	})

	t.Run("missing fields", func(t *testing.T) {
		client := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})
		verdict, err := client.Classify(context.Background(), "http://example.com")
		require.NoError(t, err)
		require.Empty(t, verdict.Label)
		require.Zero(t, verdict.Confidence)
		require.Empty(t, verdict.RiskFactors)
	})

	t.Run("non-string label becomes empty", func(t *testing.T) {
		client := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"prediction":1,"confidence":0.9}`))
		})
		verdict, err := client.Classify(context.Background(), "http://example.com")
		require.NoError(t, err)
		require.Empty(t, verdict.Label)
	})
}

func TestClassifySurfacesUpstreamErrorPayload(t *testing.T) {
	t.Parallel()

	t.Run("detail field", func(t *testing.T) {
		client := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"detail":"url could not be parsed"}`))
		})

		_, err := client.Classify(context.Background(), "http://example.com")
		var upstream *classifier.Error
		require.ErrorAs(t, err, &upstream)
		require.Equal(t, http.StatusUnprocessableEntity, upstream.StatusCode)
		require.Equal(t, "url could not be parsed", upstream.Message)
	})

	t.Run("message field", func(t *testing.T) {
		client := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"model not loaded"}`))
		})

		_, err := client.Classify(context.Background(), "http://example.com")
		var upstream *classifier.Error
		require.ErrorAs(t, err, &upstream)
		require.Equal(t, "model not loaded", upstream.Message)
	})

	t.Run("unparseable body falls back to generic message", func(t *testing.T) {
		client := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>nope</html>"))
		})

		_, err := client.Classify(context.Background(), "http://example.com")
		var upstream *classifier.Error
		require.ErrorAs(t, err, &upstream)
		require.Equal(t, http.StatusBadGateway, upstream.StatusCode)
		require.Equal(t, "ML service error.", upstream.Message)
	})
}

func TestClassifyTimeoutIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client := classifier.NewClient(classifier.Config{
		BaseURL: srv.URL,
		Timeout: 20 * time.Millisecond,
	})

	_, err := client.Classify(context.Background(), "http://example.com")
	require.ErrorIs(t, err, classifier.ErrUnavailable)
}

func TestClassifyHonorsContextCancel(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client := classifier.NewClient(classifier.Config{BaseURL: srv.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Classify(ctx, "http://example.com")
	require.ErrorIs(t, err, classifier.ErrUnavailable)
}

func TestClassifyRefusesOversizedResponse(t *testing.T) {
	t.Parallel()

	// A response past the read cap gets truncated mid-payload and must fail
	// rather than buffer whatever the upstream keeps streaming.
	client := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"prediction":"`))
		filler := strings.Repeat("a", 64*1024)
		for range 32 {
			_, _ = w.Write([]byte(filler))
		}
		_, _ = w.Write([]byte(`","confidence":0.5}`))
	})

	_, err := client.Classify(context.Background(), "http://example.com")
	require.ErrorIs(t, err, classifier.ErrUnavailable)
}

func TestClassifyConnectionRefused(t *testing.T) {
	t.Parallel()

	client := classifier.NewClient(classifier.Config{BaseURL: "http://127.0.0.1:1"})
	_, err := client.Classify(context.Background(), "http://example.com")
	require.ErrorIs(t, err, classifier.ErrUnavailable)
}
