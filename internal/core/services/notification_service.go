package services

import (
	"context"
	"fmt"
	"log"

	"admitdesk/internal/adapters/persistence/models"
	"admitdesk/internal/adapters/persistence/repositories"
	"admitdesk/internal/core/domain"
	"admitdesk/internal/pkg/pagination"
)

// NotificationEmitter is the narrow interface the lifecycle engine calls
// after a state transition. Keeping it an interface lets the delivery
// mechanism change without touching the engine.
type NotificationEmitter interface {
	ApplicationCreated(ctx context.Context, app *models.Application)
	ApplicationSubmitted(ctx context.Context, app *models.Application)
	StatusChanged(ctx context.Context, app *models.Application, fromStatus, toStatus string)
}

// statusSeverity maps a target status to the notification type shown to
// the applicant.
var statusSeverity = map[string]string{
	models.StatusApproved: models.NotifySuccess,
	models.StatusRejected: models.NotifyDanger,
}

// NotificationService persists notifications and implements
// NotificationEmitter on top of the transition-audience table.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// ApplicationCreated notifies the creator of the new draft
func (s *NotificationService) ApplicationCreated(ctx context.Context, app *models.Application) {
	s.deliver(ctx, app.UserID, &models.Notification{
		Title:   "Application created",
		Message: fmt.Sprintf("Your application %s has been created as a draft.", app.ApplicationNumber),
		Type:    models.NotifyInfo,
	})
}

// ApplicationSubmitted notifies every active program admin of the program
func (s *NotificationService) ApplicationSubmitted(ctx context.Context, app *models.Application) {
	admins, err := s.userRepo.ListProgramAdmins(ctx, app.ProgramID)
	if err != nil {
		log.Printf("⚠️ Failed to resolve program admins for program %d: %v", app.ProgramID, err)
		return
	}

	for _, admin := range admins {
		s.deliver(ctx, admin.ID, &models.Notification{
			Title:   "New application submitted",
			Message: fmt.Sprintf("Application %s was submitted and is awaiting review.", app.ApplicationNumber),
			Type:    models.NotifyInfo,
		})
	}
}

// StatusChanged notifies the owning student of a staff-driven status
// change. Program admins are informed by ApplicationSubmitted on the
// student's submit command, never here.
func (s *NotificationService) StatusChanged(ctx context.Context, app *models.Application, fromStatus, toStatus string) {
	severity, ok := statusSeverity[toStatus]
	if !ok {
		severity = models.NotifyInfo
	}

	s.deliver(ctx, app.UserID, &models.Notification{
		Title:   "Application status updated",
		Message: fmt.Sprintf("Your application %s moved from %s to %s.", app.ApplicationNumber, fromStatus, toStatus),
		Type:    severity,
	})
}

// deliver writes one notification row. Delivery is best-effort.
func (s *NotificationService) deliver(ctx context.Context, userID uint, n *models.Notification) {
	n.UserID = userID
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Printf("⚠️ Failed to deliver notification to user %d: %v", userID, err)
	}
}

// ============================================================
// Read API & bulk creation
// ============================================================

// NotificationListOutput is a paginated notification listing
type NotificationListOutput struct {
	Notifications []*models.Notification `json:"notifications"`
	Meta          *pagination.Meta       `json:"meta"`
}

// List returns the actor's own notifications
func (s *NotificationService) List(ctx context.Context, actor domain.Actor, unreadOnly bool, page, limit int) (*NotificationListOutput, error) {
	params := pagination.Normalize(page, limit)
	notifications, total, err := s.notificationRepo.ListByUser(ctx, actor.UserID, unreadOnly, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}
	return &NotificationListOutput{
		Notifications: notifications,
		Meta:          pagination.GetMeta(params, total),
	}, nil
}

// CountUnread returns the actor's unread notification count
func (s *NotificationService) CountUnread(ctx context.Context, actor domain.Actor) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, actor.UserID)
}

// MarkRead marks one of the actor's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, actor domain.Actor, id uint) error {
	if err := s.notificationRepo.MarkRead(ctx, id, actor.UserID); err != nil {
		return fmt.Errorf("%w: notification", domain.ErrNotFound)
	}
	return nil
}

// MarkAllRead marks all of the actor's notifications as read
func (s *NotificationService) MarkAllRead(ctx context.Context, actor domain.Actor) error {
	return s.notificationRepo.MarkAllRead(ctx, actor.UserID)
}

// BulkCreateInput represents admin bulk-notification input
type BulkCreateInput struct {
	UserIDs []uint
	Title   string
	Message string
	Type    string
}

// BulkFailure reports one failed item of a bulk creation
type BulkFailure struct {
	UserID uint   `json:"user_id"`
	Reason string `json:"reason"`
}

// BulkCreateOutput reports the per-item outcome of a bulk creation
type BulkCreateOutput struct {
	Created int           `json:"created"`
	Failed  []BulkFailure `json:"failed"`
}

// BulkCreate creates notifications item by item. Failures do not roll back
// earlier successes; the result reports both sides.
func (s *NotificationService) BulkCreate(ctx context.Context, actor domain.Actor, input *BulkCreateInput) (*BulkCreateOutput, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrStaffOnly
	}
	if len(input.UserIDs) == 0 {
		return nil, fmt.Errorf("%w: user ids are required", domain.ErrInvalidArgument)
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}

	notifyType := input.Type
	switch notifyType {
	case "":
		notifyType = models.NotifyInfo
	case models.NotifyInfo, models.NotifySuccess, models.NotifyWarning, models.NotifyDanger:
	default:
		return nil, fmt.Errorf("%w: unknown notification type", domain.ErrInvalidArgument)
	}

	out := &BulkCreateOutput{}
	for _, userID := range input.UserIDs {
		if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
			out.Failed = append(out.Failed, BulkFailure{UserID: userID, Reason: "user not found"})
			continue
		}
		n := &models.Notification{
			UserID:  userID,
			Title:   input.Title,
			Message: input.Message,
			Type:    notifyType,
		}
		if err := s.notificationRepo.Create(ctx, n); err != nil {
			out.Failed = append(out.Failed, BulkFailure{UserID: userID, Reason: err.Error()})
			continue
		}
		out.Created++
	}

	return out, nil
}
