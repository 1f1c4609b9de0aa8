// Package server exposes the state store over a JSON API and a WebSocket
// change feed for browser clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/focos/internal/logger"
	"github.com/julianstephens/focos/internal/models"
	"github.com/julianstephens/focos/internal/state"
	"github.com/julianstephens/focos/internal/websocket"
)

// Store is the part of state.Store the API serves.
type Store interface {
	Snapshot() models.AppState
	Version() uint64
	ToggleHabit(id string) error
	AddHabit(name string) (models.Habit, error)
	DeleteHabit(id string) error
	ToggleTask(id string) error
	AddTask(title string) (models.Task, error)
	DeleteTask(id string) error
	UpdateSettings(patch models.SettingsPatch) error
	IncrementCompletedSessions() error
	AddNotification(title, message, at string) (models.Notification, error)
	ToggleNotification(id string) error
	DeleteNotification(id string) error
	AddXP(amount int) error
	ToggleDistractionFreeMode() error
	Resume() error
}

// Asker answers free-text questions; nil disables the assistant endpoint.
type Asker interface {
	Ask(ctx context.Context, settings models.Settings, question string) (string, error)
}

type Options struct {
	Addr           string
	AllowedOrigins []string
	Assistant      Asker
}

type Server struct {
	opts        Options
	hub         *websocket.Hub
	engine      *gin.Engine
	unsubscribe func()
}

// New builds the router and subscribes the WebSocket hub to store changes.
// Close releases the subscription.
func New(store *state.Store, opts Options) *Server {
	hub := websocket.NewHub()
	return &Server{
		opts:        opts,
		hub:         hub,
		engine:      newRouter(store, hub, opts),
		unsubscribe: hub.Attach(store),
	}
}

func (s *Server) Close() {
	s.unsubscribe()
}

func newRouter(store Store, hub *websocket.Hub, opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(requestLogger(), gin.Recovery(), cors(opts.AllowedOrigins))

	h := &handler{store: store, assistant: opts.Assistant}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	snapshot := func() (uint64, models.AppState) { return store.Version(), store.Snapshot() }
	engine.GET("/ws", gin.WrapF(websocket.HandleWebSocket(hub, snapshot, opts.AllowedOrigins)))

	api := engine.Group("/api")
	api.GET("/state", h.getState)
	api.POST("/resume", h.mutation(func(*gin.Context) error { return store.Resume() }))

	habits := api.Group("/habits")
	habits.POST("", h.addHabit)
	habits.POST("/:id/toggle", h.mutation(func(c *gin.Context) error { return store.ToggleHabit(c.Param("id")) }))
	habits.DELETE("/:id", h.mutation(func(c *gin.Context) error { return store.DeleteHabit(c.Param("id")) }))

	tasks := api.Group("/tasks")
	tasks.POST("", h.addTask)
	tasks.POST("/:id/toggle", h.mutation(func(c *gin.Context) error { return store.ToggleTask(c.Param("id")) }))
	tasks.DELETE("/:id", h.mutation(func(c *gin.Context) error { return store.DeleteTask(c.Param("id")) }))

	notifications := api.Group("/notifications")
	notifications.POST("", h.addNotification)
	notifications.POST("/:id/toggle", h.mutation(func(c *gin.Context) error { return store.ToggleNotification(c.Param("id")) }))
	notifications.DELETE("/:id", h.mutation(func(c *gin.Context) error { return store.DeleteNotification(c.Param("id")) }))

	api.PATCH("/settings", h.updateSettings)
	api.POST("/sessions/complete", h.mutation(func(*gin.Context) error { return store.IncrementCompletedSessions() }))
	api.POST("/xp", h.addXP)
	api.POST("/focus-mode/toggle", h.mutation(func(*gin.Context) error { return store.ToggleDistractionFreeMode() }))
	api.POST("/assistant", h.ask)

	return engine
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	// Request contexts derive from ctx so open WebSocket streams end with it.
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "addr", s.opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("API server stopped")
	return nil
}
