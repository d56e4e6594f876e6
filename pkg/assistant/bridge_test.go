package assistant

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AddisenK/ai-assistant/pkg/config"
)

func bridgeFor(t *testing.T, handler http.HandlerFunc) *bridgeClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return newBridgeClient(config.AssistantConfig{BridgeURL: server.URL, RequestTimeoutSeconds: 5})
}

func TestBridgeAsk(t *testing.T) {
	var gotPath string
	var gotBody bridgeRequest

	client := bridgeFor(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "42"})
	})

	reply, err := client.Ask(t.Context(), "meaning of life?", "be brief")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply != "42" {
		t.Fatalf("reply = %q", reply)
	}
	if gotPath != "/chat" {
		t.Fatalf("path = %q, want /chat", gotPath)
	}
	if gotBody.Message != "meaning of life?" || gotBody.Context != "be brief" {
		t.Fatalf("request body = %+v", gotBody)
	}
}

func TestBridgeAskMissingResponseField(t *testing.T) {
	client := bridgeFor(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	_, err := client.Ask(t.Context(), "hello", "")
	if !errors.Is(err, ErrNoReply) {
		t.Fatalf("err = %v, want ErrNoReply", err)
	}
}

func TestBridgeAskServerError(t *testing.T) {
	client := bridgeFor(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Ask(t.Context(), "hello", "")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestBridgeAskMalformedBody(t *testing.T) {
	client := bridgeFor(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := client.Ask(t.Context(), "hello", "")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestBridgeAskUnconfigured(t *testing.T) {
	client := newBridgeClient(config.AssistantConfig{})
	if client.Configured() {
		t.Fatal("Configured true without bridge URL")
	}

	_, err := client.Ask(t.Context(), "hello", "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}

	if got := Text("", err); got != TextNotConfigured {
		t.Fatalf("collapsed = %q, want fixed not-configured string", got)
	}
}

func TestBridgeConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newBridgeClient(config.AssistantConfig{BridgeURL: url, RequestTimeoutSeconds: 2})
	_, err := client.Ask(t.Context(), "hello", "")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
