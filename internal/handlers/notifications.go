package handlers

import (
	"context"
	"net/http"
	"strconv"

	"campus-kpi-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

type NotificationStore interface {
	ListNotifications(ctx context.Context, read *bool, limit int) ([]models.Notification, error)
	CountUnreadNotifications(ctx context.Context) (int64, error)
	MarkNotificationRead(ctx context.Context, id uint) (*models.Notification, error)
	MarkAllNotificationsRead(ctx context.Context) (int64, error)
}

// NotificationHandler handles the notification inbox
type NotificationHandler struct {
	store NotificationStore
	limit int
}

func NewNotificationHandler(store NotificationStore, limit int) *NotificationHandler {
	if limit <= 0 {
		limit = 50
	}
	return &NotificationHandler{store: store, limit: limit}
}

// List returns notifications newest first, optionally filtered by ?read=true|false
func (h *NotificationHandler) List(c *gin.Context) {
	var read *bool
	if raw := c.Query("read"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, models.Invalid("read", "must be true or false"))
			return
		}
		read = &v
	}

	out, err := h.store.ListNotifications(c.Request.Context(), read, queryLimit(c, h.limit, h.limit))
	if err != nil {
		respondError(c, err)
		return
	}
	if out == nil {
		out = []models.Notification{}
	}
	c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n, err := h.store.CountUnreadNotifications(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	n, err := h.store.MarkNotificationRead(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.store.MarkAllNotificationsRead(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
