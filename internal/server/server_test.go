package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julianstephens/focos/internal/assistant"
	"github.com/julianstephens/focos/internal/models"
	"github.com/julianstephens/focos/internal/state"
	"github.com/julianstephens/focos/internal/storage"
)

type stateResponse struct {
	State        models.AppState     `json:"state"`
	Level        int                 `json:"level"`
	Habit        models.Habit        `json:"habit"`
	Task         models.Task         `json:"task"`
	Notification models.Notification `json:"notification"`
	Answer       string              `json:"answer"`
	Error        struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type fakeAsker struct {
	answer string
	err    error
}

func (f fakeAsker) Ask(_ context.Context, _ models.Settings, q string) (string, error) {
	if q == "" {
		return "", assistant.ErrEmptyQuestion
	}
	return f.answer, f.err
}

func newTestServer(t *testing.T, opts Options) (*Server, *state.Store) {
	t.Helper()
	s := state.New(storage.NewMemoryStore())
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	srv := New(s, opts)
	t.Cleanup(srv.Close)
	return srv, s
}

func do(t *testing.T, h http.Handler, method, path string, body any) (int, stateResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp stateResponse
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec.Code, resp
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d", rec.Code)
	}
}

func TestGetState(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	code, resp := do(t, srv.Handler(), http.MethodGet, "/api/state", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(resp.State.Habits) != 3 || resp.Level != 1 {
		t.Errorf("habits=%d level=%d", len(resp.State.Habits), resp.Level)
	}
}

func TestHabitLifecycle(t *testing.T) {
	srv, store := newTestServer(t, Options{})
	h := srv.Handler()

	code, resp := do(t, h, http.MethodPost, "/api/habits", nameRequest{Name: " Stretch "})
	if code != http.StatusCreated {
		t.Fatalf("POST /api/habits = %d", code)
	}
	if resp.Habit.Name != "Stretch" || resp.Habit.ID == "" {
		t.Errorf("habit = %+v", resp.Habit)
	}

	code, resp = do(t, h, http.MethodPost, "/api/habits/"+resp.Habit.ID+"/toggle", nil)
	if code != http.StatusOK {
		t.Fatalf("toggle = %d", code)
	}
	if resp.State.UserXP != 10 {
		t.Errorf("UserXP = %d, want 10", resp.State.UserXP)
	}

	id := resp.State.Habits[3].ID
	if code, _ := do(t, h, http.MethodDelete, "/api/habits/"+id, nil); code != http.StatusOK {
		t.Fatalf("delete = %d", code)
	}
	if n := len(store.Snapshot().Habits); n != 3 {
		t.Errorf("len(Habits) = %d after delete", n)
	}

	// Unknown ids are no-ops, not errors.
	if code, _ := do(t, h, http.MethodPost, "/api/habits/nope/toggle", nil); code != http.StatusOK {
		t.Errorf("toggle unknown = %d", code)
	}
}

func TestValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	h := srv.Handler()

	zero := 0
	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		wantCode string
	}{
		{"empty habit name", http.MethodPost, "/api/habits", nameRequest{}, "invalid_name"},
		{"empty task title", http.MethodPost, "/api/tasks", titleRequest{}, "invalid_title"},
		{"empty notification title", http.MethodPost, "/api/notifications", notificationRequest{}, "invalid_title"},
		{"non-positive xp", http.MethodPost, "/api/xp", xpRequest{Amount: -3}, "invalid_amount"},
		{"zero focus duration", http.MethodPatch, "/api/settings", models.SettingsPatch{FocusDuration: &zero}, "invalid_settings"},
		{"missing body", http.MethodPatch, "/api/settings", nil, "invalid_json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := do(t, h, tt.method, tt.path, tt.body)
			if code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", code)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestSettingsAndSessions(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	h := srv.Handler()

	on := true
	code, resp := do(t, h, http.MethodPatch, "/api/settings", models.SettingsPatch{DevotionalMode: &on})
	if code != http.StatusOK {
		t.Fatalf("PATCH /api/settings = %d", code)
	}
	if !resp.State.Settings.DevotionalMode || !resp.State.Settings.DivineMode {
		t.Errorf("Settings = %+v", resp.State.Settings)
	}

	for i := 0; i < 2; i++ {
		code, resp = do(t, h, http.MethodPost, "/api/sessions/complete", nil)
		if code != http.StatusOK {
			t.Fatalf("complete session = %d", code)
		}
	}
	if resp.State.CompletedSessions != 2 || resp.State.UserXP != 40 {
		t.Errorf("sessions=%d xp=%d", resp.State.CompletedSessions, resp.State.UserXP)
	}

	code, resp = do(t, h, http.MethodPost, "/api/focus-mode/toggle", nil)
	if code != http.StatusOK || !resp.State.Settings.DistractionFreeMode {
		t.Errorf("focus-mode toggle = %d, %+v", code, resp.State.Settings)
	}

	code, resp = do(t, h, http.MethodPost, "/api/xp", xpRequest{Amount: 60})
	if code != http.StatusOK || resp.State.UserXP != 100 {
		t.Errorf("xp = %d, %d", code, resp.State.UserXP)
	}

	if code, _ := do(t, h, http.MethodPost, "/api/resume", nil); code != http.StatusOK {
		t.Errorf("resume = %d", code)
	}
}

func TestAddXPSaturates(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	h := srv.Handler()

	var resp stateResponse
	for i := 0; i < 2; i++ {
		var code int
		code, resp = do(t, h, http.MethodPost, "/api/xp", xpRequest{Amount: math.MaxInt})
		if code != http.StatusOK {
			t.Fatalf("add xp = %d", code)
		}
	}
	if resp.State.UserXP != math.MaxInt {
		t.Errorf("userXp = %d, want %d", resp.State.UserXP, math.MaxInt)
	}
}

func TestTasksAndNotifications(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	h := srv.Handler()

	code, resp := do(t, h, http.MethodPost, "/api/tasks", titleRequest{Title: "Inbox zero"})
	if code != http.StatusCreated {
		t.Fatalf("POST /api/tasks = %d", code)
	}
	taskID := resp.Task.ID
	_, resp = do(t, h, http.MethodPost, "/api/tasks/"+taskID+"/toggle", nil)
	if !resp.State.Tasks[0].Completed || resp.State.UserXP != 5 {
		t.Errorf("after toggle: %+v xp=%d", resp.State.Tasks[0], resp.State.UserXP)
	}
	_, resp = do(t, h, http.MethodDelete, "/api/tasks/"+taskID, nil)
	if len(resp.State.Tasks) != 0 {
		t.Errorf("tasks after delete = %+v", resp.State.Tasks)
	}

	code, resp = do(t, h, http.MethodPost, "/api/notifications", notificationRequest{Title: "Stretch", Time: "15:00"})
	if code != http.StatusCreated || !resp.Notification.Enabled {
		t.Fatalf("POST /api/notifications = %d, %+v", code, resp.Notification)
	}
	nID := resp.Notification.ID
	_, resp = do(t, h, http.MethodPost, "/api/notifications/"+nID+"/toggle", nil)
	if resp.State.Notifications[0].Enabled {
		t.Error("notification still enabled")
	}
	_, resp = do(t, h, http.MethodDelete, "/api/notifications/"+nID, nil)
	if len(resp.State.Notifications) != 0 {
		t.Error("notification not deleted")
	}
}

func TestStorageFailureIsInternalError(t *testing.T) {
	mem := storage.NewMemoryStore()
	s := state.New(mem)
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	srv := New(s, Options{})
	defer srv.Close()

	mem.FailWrites("habits", errors.New("disk full"))
	code, resp := do(t, srv.Handler(), http.MethodPost, "/api/habits/1/toggle", nil)
	if code != http.StatusInternalServerError || resp.Error.Code != "internal_error" {
		t.Errorf("status=%d code=%q", code, resp.Error.Code)
	}
}

func TestAssistantEndpoint(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		srv, _ := newTestServer(t, Options{})
		code, resp := do(t, srv.Handler(), http.MethodPost, "/api/assistant", askRequest{Question: "hi"})
		if code != http.StatusServiceUnavailable || resp.Error.Code != "assistant_disabled" {
			t.Errorf("status=%d code=%q", code, resp.Error.Code)
		}
	})
	t.Run("answer", func(t *testing.T) {
		srv, _ := newTestServer(t, Options{Assistant: fakeAsker{answer: "Breathe."}})
		code, resp := do(t, srv.Handler(), http.MethodPost, "/api/assistant", askRequest{Question: "hi"})
		if code != http.StatusOK || resp.Answer != "Breathe." {
			t.Errorf("status=%d answer=%q", code, resp.Answer)
		}
	})
	t.Run("empty question", func(t *testing.T) {
		srv, _ := newTestServer(t, Options{Assistant: fakeAsker{}})
		code, _ := do(t, srv.Handler(), http.MethodPost, "/api/assistant", askRequest{})
		if code != http.StatusBadRequest {
			t.Errorf("status=%d", code)
		}
	})
	t.Run("upstream failure", func(t *testing.T) {
		srv, _ := newTestServer(t, Options{Assistant: fakeAsker{err: errors.New("boom")}})
		code, resp := do(t, srv.Handler(), http.MethodPost, "/api/assistant", askRequest{Question: "hi"})
		if code != http.StatusBadGateway || resp.Error.Code != "assistant_unavailable" {
			t.Errorf("status=%d code=%q", code, resp.Error.Code)
		}
	})
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t, Options{AllowedOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/state", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin for unknown origin = %q", got)
	}
}
