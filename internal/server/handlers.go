package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/focos/internal/assistant"
	"github.com/julianstephens/focos/internal/logger"
	"github.com/julianstephens/focos/internal/models"
)

type nameRequest struct {
	Name string `json:"name"`
}

type titleRequest struct {
	Title string `json:"title"`
}

type notificationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

type xpRequest struct {
	Amount int `json:"amount"`
}

type askRequest struct {
	Question string `json:"question"`
}

type handler struct {
	store     Store
	assistant Asker
}

func (h *handler) respondState(c *gin.Context, status int, extra gin.H) {
	body := gin.H{"state": h.store.Snapshot()}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// mutation runs fn and answers with the new state.
func (h *handler) mutation(fn func(c *gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			logger.Error("Mutation failed", "path", c.FullPath(), "error", err)
			writeError(c, internalError("failed to save state"))
			return
		}
		h.respondState(c, http.StatusOK, nil)
	}
}

func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		writeError(c, badRequest("invalid_json", "invalid request body"))
		return false
	}
	return true
}

func (h *handler) getState(c *gin.Context) {
	h.respondState(c, http.StatusOK, gin.H{"level": h.store.Snapshot().Level()})
}

func (h *handler) addHabit(c *gin.Context) {
	var req nameRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(c, badRequest("invalid_name", "name is required"))
		return
	}
	habit, err := h.store.AddHabit(strings.TrimSpace(req.Name))
	if err != nil {
		logger.Error("Add habit failed", "error", err)
		writeError(c, internalError("failed to save state"))
		return
	}
	h.respondState(c, http.StatusCreated, gin.H{"habit": habit})
}

func (h *handler) addTask(c *gin.Context) {
	var req titleRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(c, badRequest("invalid_title", "title is required"))
		return
	}
	task, err := h.store.AddTask(strings.TrimSpace(req.Title))
	if err != nil {
		logger.Error("Add task failed", "error", err)
		writeError(c, internalError("failed to save state"))
		return
	}
	h.respondState(c, http.StatusCreated, gin.H{"task": task})
}

func (h *handler) addNotification(c *gin.Context) {
	var req notificationRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(c, badRequest("invalid_title", "title is required"))
		return
	}
	n, err := h.store.AddNotification(strings.TrimSpace(req.Title), req.Message, req.Time)
	if err != nil {
		logger.Error("Add notification failed", "error", err)
		writeError(c, internalError("failed to save state"))
		return
	}
	h.respondState(c, http.StatusCreated, gin.H{"notification": n})
}

func (h *handler) updateSettings(c *gin.Context) {
	var patch models.SettingsPatch
	if !bind(c, &patch) {
		return
	}
	if err := patch.Validate(); err != nil {
		writeError(c, badRequest("invalid_settings", err.Error()))
		return
	}
	if err := h.store.UpdateSettings(patch); err != nil {
		logger.Error("Update settings failed", "error", err)
		writeError(c, internalError("failed to save state"))
		return
	}
	h.respondState(c, http.StatusOK, nil)
}

func (h *handler) addXP(c *gin.Context) {
	var req xpRequest
	if !bind(c, &req) {
		return
	}
	if req.Amount <= 0 {
		writeError(c, badRequest("invalid_amount", "amount must be a positive integer"))
		return
	}
	if err := h.store.AddXP(req.Amount); err != nil {
		logger.Error("Add XP failed", "error", err)
		writeError(c, internalError("failed to save state"))
		return
	}
	h.respondState(c, http.StatusOK, nil)
}

func (h *handler) ask(c *gin.Context) {
	if h.assistant == nil {
		writeError(c, newAPIError(http.StatusServiceUnavailable, "assistant_disabled", "assistant is not configured"))
		return
	}
	var req askRequest
	if !bind(c, &req) {
		return
	}

	answer, err := h.assistant.Ask(c.Request.Context(), h.store.Snapshot().Settings, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrEmptyQuestion):
			writeError(c, badRequest("invalid_question", err.Error()))
		case errors.Is(err, context.DeadlineExceeded):
			writeError(c, newAPIError(http.StatusGatewayTimeout, "assistant_timeout", "assistant did not answer in time"))
		default:
			logger.Warn("Assistant request failed", "error", err)
			writeError(c, newAPIError(http.StatusBadGateway, "assistant_unavailable", err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
