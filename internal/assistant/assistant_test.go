package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/focos/internal/config"
	"github.com/julianstephens/focos/internal/models"
)

func newClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("FOCOS_TEST_ASSISTANT_KEY", "sk-test")
	return New(config.AssistantConfig{
		Endpoint:  srv.URL,
		Model:     "test-model",
		APIKeyEnv: "FOCOS_TEST_ASSISTANT_KEY",
		Timeout:   2 * time.Second,
	})
}

func TestAsk(t *testing.T) {
	var got chatRequest
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Take a short walk.  "}}]}`))
	})

	answer, err := c.Ask(context.Background(), models.DefaultSettings(), "I feel stuck")
	if err != nil {
		t.Fatalf("Ask() failed: %v", err)
	}
	if answer != "Take a short walk." {
		t.Errorf("Ask() = %q", answer)
	}
	if got.Model != "test-model" || len(got.Messages) != 2 {
		t.Fatalf("request = %+v", got)
	}
	if got.Messages[0].Role != "system" || !strings.Contains(got.Messages[0].Content, "FOCOS") {
		t.Errorf("system message = %+v", got.Messages[0])
	}
	if got.Messages[1].Content != "I feel stuck" {
		t.Errorf("user message = %+v", got.Messages[1])
	}
}

func TestAskErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"upstream failure", http.StatusTooManyRequests, `{"error":"rate limited"}`, nil},
		{"no choices", http.StatusOK, `{"choices":[]}`, ErrNoAnswer},
		{"blank answer", http.StatusOK, `{"choices":[{"message":{"content":"  "}}]}`, ErrNoAnswer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Ask(context.Background(), models.DefaultSettings(), "hi")
			if err == nil {
				t.Fatal("Ask() should fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Ask() error = %v, want %v", err, tt.wantErr)
			}
			if tt.status >= 300 {
				var upstream *UpstreamError
				if !errors.As(err, &upstream) || upstream.Status != tt.status {
					t.Errorf("Ask() error = %v, want UpstreamError %d", err, tt.status)
				}
			}
		})
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	c := New(config.AssistantConfig{Endpoint: "http://127.0.0.1:0", Timeout: time.Second})
	if _, err := c.Ask(context.Background(), models.DefaultSettings(), "   "); !errors.Is(err, ErrEmptyQuestion) {
		t.Errorf("Ask() error = %v, want ErrEmptyQuestion", err)
	}
}

func TestAskUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(config.AssistantConfig{Endpoint: url, Timeout: time.Second})
	if _, err := c.Ask(context.Background(), models.DefaultSettings(), "hello"); err == nil {
		t.Error("Ask() against a closed server should fail")
	}
}

func TestSystemPromptModes(t *testing.T) {
	s := models.DefaultSettings()
	s.AppName = "Deep Days"

	plain, err := SystemPrompt(s)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(plain, "Deep Days") || !strings.Contains(plain, "25-minute") {
		t.Errorf("plain prompt = %q", plain)
	}
	if strings.Contains(plain, "devotional") {
		t.Error("plain prompt mentions devotional tone")
	}

	s.DevotionalMode = true
	devotional, err := SystemPrompt(s.Normalize())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(devotional, "devotional") {
		t.Errorf("devotional prompt = %q", devotional)
	}
}
