package handlers

import (
	"admitdesk/internal/adapters/http/middleware"
	"admitdesk/internal/core/services"
	"admitdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List lists the caller's notifications
// @Summary List notifications
// @Description List the caller's notifications, newest first
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Unread only"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	unreadOnly := c.QueryBool("unread", false)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	result, err := h.notificationService.List(c.Context(), actor, unreadOnly, page, limit)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Notifications retrieved successfully", result)
}

// UnreadCount returns the caller's unread notification count
// @Summary Unread count
// @Description Count the caller's unread notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	count, err := h.notificationService.CountUnread(c.Context(), actor)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Unread count retrieved successfully", fiber.Map{
		"count": count,
	})
}

// MarkRead marks one notification read
// @Summary Mark notification read
// @Description Mark one of the caller's notifications as read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid notification ID")
	}

	if err := h.notificationService.MarkRead(c.Context(), actor, uint(id)); err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Notification marked as read", nil)
}

// MarkAllRead marks every notification of the caller read
// @Summary Mark all read
// @Description Mark all of the caller's notifications as read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.notificationService.MarkAllRead(c.Context(), actor); err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "All notifications marked as read", nil)
}

// BulkCreateRequest represents the bulk notification request body
type BulkCreateRequest struct {
	UserIDs []uint `json:"user_ids"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// BulkCreate sends a notification to many users
// @Summary Bulk create notifications
// @Description Send a notification to a list of users (admin only); failures are reported per item
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BulkCreateRequest true "Notification data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /notifications/bulk [post]
func (h *NotificationHandler) BulkCreate(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req BulkCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.BulkCreateInput{
		UserIDs: req.UserIDs,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
	}

	result, err := h.notificationService.BulkCreate(c.Context(), actor, input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Notifications created", result)
}
