package inference

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func countingProvider(t *testing.T, name string, calls *int32, resp func() *http.Response) *Provider {
	t.Helper()
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			atomic.AddInt32(calls, 1)
			return resp(), nil
		}),
	}
	p, err := NewProviderWithHTTPClient(ProviderConfig{
		Name:    name,
		BaseURL: "http://" + name,
		APIKey:  "key-" + name,
		Model:   "model-" + name,
		Timeout: 2 * time.Second,
	}, client)
	if err != nil {
		t.Fatalf("NewProviderWithHTTPClient: %v", err)
	}
	return p
}

func TestGatewayFirstSuccess(t *testing.T) {
	var primaryCalls, secondaryCalls int32

	primary := countingProvider(t, "groq", &primaryCalls, func() *http.Response {
		return jsonResponse(http.StatusOK, completionBody("from primary"))
	})
	secondary := countingProvider(t, "openrouter", &secondaryCalls, func() *http.Response {
		return jsonResponse(http.StatusOK, completionBody("from secondary"))
	})

	g := NewGateway(testLogger(t), primary, secondary)
	text, err := g.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0.7)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "from primary" {
		t.Fatalf("text=%q", text)
	}
	if got := atomic.LoadInt32(&primaryCalls); got != 1 {
		t.Fatalf("primary calls=%d", got)
	}
	if got := atomic.LoadInt32(&secondaryCalls); got != 0 {
		t.Fatalf("secondary must not be invoked, calls=%d", got)
	}
}

func TestGatewayFailover(t *testing.T) {
	var primaryCalls, secondaryCalls int32

	primary := countingProvider(t, "groq", &primaryCalls, func() *http.Response {
		return jsonResponse(http.StatusServiceUnavailable, map[string]any{"error": "down"})
	})
	secondary := countingProvider(t, "openrouter", &secondaryCalls, func() *http.Response {
		return jsonResponse(http.StatusOK, completionBody("from secondary"))
	})

	g := NewGateway(testLogger(t), primary, secondary)
	text, err := g.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0.7)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "from secondary" {
		t.Fatalf("text=%q", text)
	}
	if primaryCalls != 1 || secondaryCalls != 1 {
		t.Fatalf("calls primary=%d secondary=%d", primaryCalls, secondaryCalls)
	}
}

func TestGatewayExhausted(t *testing.T) {
	var primaryCalls, secondaryCalls int32

	primary := countingProvider(t, "groq", &primaryCalls, func() *http.Response {
		return jsonResponse(http.StatusInternalServerError, map[string]any{"error": "boom"})
	})
	secondary := countingProvider(t, "openrouter", &secondaryCalls, func() *http.Response {
		return jsonResponse(http.StatusOK, completionBody("   "))
	})

	g := NewGateway(testLogger(t), primary, secondary)
	_, err := g.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0.7)
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if !IsExhausted(err) {
		t.Fatalf("IsExhausted=false for %v", err)
	}

	exhausted := err.(*ExhaustedError)
	if len(exhausted.Attempts) != 2 {
		t.Fatalf("attempts=%d", len(exhausted.Attempts))
	}
	if exhausted.Attempts[0].Provider != "groq" || exhausted.Attempts[1].Provider != "openrouter" {
		t.Fatalf("attempt order: %+v", exhausted.Attempts)
	}
	if !strings.Contains(err.Error(), "groq") {
		t.Fatalf("error should carry provider reasons: %v", err)
	}
}

func TestGatewaySkipsUnconfigured(t *testing.T) {
	var secondaryCalls int32

	unconfigured, err := NewProvider(ProviderConfig{
		Name:    "groq",
		BaseURL: "http://groq",
		Model:   "model-groq",
	})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	secondary := countingProvider(t, "openrouter", &secondaryCalls, func() *http.Response {
		return jsonResponse(http.StatusOK, completionBody("from secondary"))
	})

	g := NewGateway(testLogger(t), unconfigured, secondary)
	text, err := g.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0.7)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "from secondary" {
		t.Fatalf("text=%q", text)
	}
}
