package http

import (
	"net/http"

	"rentalops-backend/internal/service"
)

type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	staffID, ok := StaffIDFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "missing staff identity")
		return
	}
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)

	notifications, total, err := h.notificationSvc.List(r.Context(), staffID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"total":         total,
		"page":          page,
	})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	staffID, ok := StaffIDFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "missing staff identity")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid notification id")
		return
	}
	if err := h.notificationSvc.MarkAsRead(r.Context(), staffID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
