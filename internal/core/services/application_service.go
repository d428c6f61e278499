package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"admitdesk/internal/adapters/persistence/models"
	"admitdesk/internal/adapters/persistence/repositories"
	"admitdesk/internal/core/domain"
	"admitdesk/internal/pkg/pagination"
)

// Application service errors
var (
	ErrApplicationNotFound  = fmt.Errorf("%w: application", domain.ErrNotFound)
	ErrProgramNotFound      = fmt.Errorf("%w: program", domain.ErrNotFound)
	ErrNotApplicationActor  = fmt.Errorf("%w: no access to this application", domain.ErrForbidden)
	ErrNotStudent           = fmt.Errorf("%w: only students may perform this action", domain.ErrForbidden)
	ErrStaffOnly            = fmt.Errorf("%w: staff only", domain.ErrForbidden)
	ErrNotEditableState     = fmt.Errorf("%w: application is not editable in its current status", domain.ErrInvalidState)
	ErrNotDraft             = fmt.Errorf("%w: only draft applications can be submitted", domain.ErrInvalidState)
	ErrUnknownStatus        = fmt.Errorf("%w: unknown application status", domain.ErrInvalidArgument)
	ErrAcademicYearRequired = fmt.Errorf("%w: academic year is required", domain.ErrInvalidArgument)
)

// ApplicationService owns the application lifecycle: creation, field
// updates, the status state machine and its history ledger.
type ApplicationService struct {
	appRepo     repositories.ApplicationRepository
	historyRepo repositories.StatusHistoryRepository
	programRepo repositories.ProgramRepository
	emitter     NotificationEmitter
}

// NewApplicationService creates a new application service
func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	historyRepo repositories.StatusHistoryRepository,
	programRepo repositories.ProgramRepository,
	emitter NotificationEmitter,
) *ApplicationService {
	return &ApplicationService{
		appRepo:     appRepo,
		historyRepo: historyRepo,
		programRepo: programRepo,
		emitter:     emitter,
	}
}

// CreateApplicationInput represents create input
type CreateApplicationInput struct {
	ProgramID            uint
	AcademicYear         string
	FullName             string
	Email                string
	MobileNumber         string
	DateOfBirth          *time.Time
	Gender               string
	Address              string
	City                 string
	State                string
	PostalCode           string
	GuardianName         string
	GuardianContact      string
	PreviousInstitution  string
	PreviousGradePercent *float64
	Remarks              string
}

// Create creates a new draft application for the acting student
func (s *ApplicationService) Create(ctx context.Context, actor domain.Actor, input *CreateApplicationInput) (*models.Application, error) {
	if actor.Role != domain.RoleStudent {
		return nil, ErrNotStudent
	}
	if input.ProgramID == 0 {
		return nil, fmt.Errorf("%w: program is required", domain.ErrInvalidArgument)
	}
	if input.AcademicYear == "" {
		return nil, ErrAcademicYearRequired
	}
	if input.FullName == "" {
		return nil, fmt.Errorf("%w: full name is required", domain.ErrInvalidArgument)
	}

	program, err := s.programRepo.GetByID(ctx, input.ProgramID)
	if err != nil {
		return nil, ErrProgramNotFound
	}
	if !program.IsActive {
		return nil, fmt.Errorf("%w: program is not accepting applications", domain.ErrInvalidState)
	}

	number, err := s.allocateNumber(ctx)
	if err != nil {
		return nil, err
	}

	app := &models.Application{
		ApplicationNumber:    number,
		UserID:               actor.UserID,
		ProgramID:            input.ProgramID,
		AcademicYear:         input.AcademicYear,
		Status:               models.StatusDraft,
		FullName:             input.FullName,
		Email:                input.Email,
		MobileNumber:         input.MobileNumber,
		DateOfBirth:          input.DateOfBirth,
		Gender:               input.Gender,
		Address:              input.Address,
		City:                 input.City,
		State:                input.State,
		PostalCode:           input.PostalCode,
		GuardianName:         input.GuardianName,
		GuardianContact:      input.GuardianContact,
		PreviousInstitution:  input.PreviousInstitution,
		PreviousGradePercent: input.PreviousGradePercent,
		Remarks:              input.Remarks,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	// Creation entry has no from-status
	s.appendHistory(ctx, &models.ApplicationStatusHistory{
		ApplicationID: app.ID,
		ToStatus:      models.StatusDraft,
		ChangedBy:     actor.UserID,
		Remarks:       "Application created",
	})

	if s.emitter != nil {
		s.emitter.ApplicationCreated(ctx, app)
	}

	return app, nil
}

// allocateNumber builds the textual application number APP{YY}{NNNNNN}
// from the atomic per-year sequence.
func (s *ApplicationService) allocateNumber(ctx context.Context) (string, error) {
	year := time.Now().Year() % 100
	seq, err := s.appRepo.NextSequence(ctx, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("APP%02d%06d", year, seq), nil
}

// GetByID returns one application, authorization-gated
func (s *ApplicationService) GetByID(ctx context.Context, actor domain.Actor, id uint) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrApplicationNotFound
	}
	if !actor.Can(domain.ActionView, domain.Resource{OwnerID: app.UserID, ProgramID: app.ProgramID}) {
		return nil, ErrNotApplicationActor
	}
	return app, nil
}

// ListApplicationsInput represents list input
type ListApplicationsInput struct {
	Status       string
	ProgramID    *uint
	AcademicYear string
	SortField    string
	SortOrder    string
	Page         int
	Limit        int
}

// ListOutput represents a paginated application listing
type ListOutput struct {
	Applications []*models.ApplicationResponse `json:"applications"`
	Meta         *pagination.Meta              `json:"meta"`
}

// List lists applications, implicitly scoped by the actor's role:
// students see their own, program admins their program, admins everything.
func (s *ApplicationService) List(ctx context.Context, actor domain.Actor, input *ListApplicationsInput) (*ListOutput, error) {
	if input.Status != "" && !models.ValidStatus(input.Status) {
		return nil, ErrUnknownStatus
	}

	params := pagination.Normalize(input.Page, input.Limit)
	filter := &repositories.ApplicationFilter{
		Status:       input.Status,
		ProgramID:    input.ProgramID,
		AcademicYear: input.AcademicYear,
		SortField:    input.SortField,
		SortOrder:    input.SortOrder,
		Offset:       params.Offset,
		Limit:        params.Limit,
	}

	switch actor.Role {
	case domain.RoleStudent:
		uid := actor.UserID
		filter.UserID = &uid
	case domain.RoleProgramAdmin:
		// A program admin without an assigned program manages nothing
		if actor.ProgramID == nil {
			return nil, ErrNotApplicationActor
		}
		filter.ProgramID = actor.ProgramID
	case domain.RoleAdmin:
		// unrestricted
	default:
		return nil, ErrNotApplicationActor
	}

	apps, total, err := s.appRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		responses = append(responses, app.ToResponse())
	}

	return &ListOutput{
		Applications: responses,
		Meta:         pagination.GetMeta(params, total),
	}, nil
}

// UpdateApplicationInput represents update input. Nil fields are left
// untouched. Status is honored for staff only; student updates drop it
// silently along with every other lifecycle-owned field.
type UpdateApplicationInput struct {
	AcademicYear         *string
	FullName             *string
	Email                *string
	MobileNumber         *string
	DateOfBirth          *time.Time
	Gender               *string
	Address              *string
	City                 *string
	State                *string
	PostalCode           *string
	GuardianName         *string
	GuardianContact      *string
	PreviousInstitution  *string
	PreviousGradePercent *float64
	Remarks              *string
	Status               *string
	StatusRemarks        string
}

// Update applies a field update. Students may edit their own application
// while it is draft or rejected; staff may edit anything, and a status
// change embedded in the update runs the full transition side effects.
func (s *ApplicationService) Update(ctx context.Context, actor domain.Actor, id uint, input *UpdateApplicationInput) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrApplicationNotFound
	}

	if actor.ManagesProgram(app.ProgramID) {
		return s.staffUpdate(ctx, actor, app, input)
	}

	// Student path
	if actor.Role != domain.RoleStudent || actor.UserID != app.UserID {
		return nil, ErrNotApplicationActor
	}
	if app.Status != models.StatusDraft && app.Status != models.StatusRejected {
		return nil, ErrNotEditableState
	}

	applyProfileFields(app, input)

	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// staffUpdate applies any field and runs status-transition side effects when
// the requested status differs from the current one. An equal status is
// strictly a no-op: no history entry, no notification.
func (s *ApplicationService) staffUpdate(ctx context.Context, actor domain.Actor, app *models.Application, input *UpdateApplicationInput) (*models.Application, error) {
	applyProfileFields(app, input)

	fromStatus := app.Status
	statusChanged := false

	if input.Status != nil && *input.Status != fromStatus {
		if !models.ValidStatus(*input.Status) {
			return nil, ErrUnknownStatus
		}
		statusChanged = true
		s.stampTransition(app, *input.Status, actor.UserID)
		app.Status = *input.Status
	}

	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	if statusChanged {
		remarks := input.StatusRemarks
		if remarks == "" {
			remarks = fmt.Sprintf("Status changed from %s to %s", fromStatus, app.Status)
		}
		s.appendHistory(ctx, &models.ApplicationStatusHistory{
			ApplicationID: app.ID,
			FromStatus:    &fromStatus,
			ToStatus:      app.Status,
			ChangedBy:     actor.UserID,
			Remarks:       remarks,
		})

		if s.emitter != nil {
			s.emitter.StatusChanged(ctx, app, fromStatus, app.Status)
		}
	}

	return app, nil
}

// stampTransition sets the once-only lifecycle timestamps for the target
// status. Already-set values are never overwritten.
func (s *ApplicationService) stampTransition(app *models.Application, toStatus string, actorID uint) {
	now := time.Now()
	if toStatus == models.StatusSubmitted && app.SubmittedAt == nil {
		app.SubmittedAt = &now
	}
	if (toStatus == models.StatusApproved || toStatus == models.StatusRejected) && app.ReviewedAt == nil {
		app.ReviewedBy = &actorID
		app.ReviewedAt = &now
	}
}

// applyProfileFields copies the non-lifecycle fields that are present
func applyProfileFields(app *models.Application, input *UpdateApplicationInput) {
	if input.AcademicYear != nil {
		app.AcademicYear = *input.AcademicYear
	}
	if input.FullName != nil {
		app.FullName = *input.FullName
	}
	if input.Email != nil {
		app.Email = *input.Email
	}
	if input.MobileNumber != nil {
		app.MobileNumber = *input.MobileNumber
	}
	if input.DateOfBirth != nil {
		app.DateOfBirth = input.DateOfBirth
	}
	if input.Gender != nil {
		app.Gender = *input.Gender
	}
	if input.Address != nil {
		app.Address = *input.Address
	}
	if input.City != nil {
		app.City = *input.City
	}
	if input.State != nil {
		app.State = *input.State
	}
	if input.PostalCode != nil {
		app.PostalCode = *input.PostalCode
	}
	if input.GuardianName != nil {
		app.GuardianName = *input.GuardianName
	}
	if input.GuardianContact != nil {
		app.GuardianContact = *input.GuardianContact
	}
	if input.PreviousInstitution != nil {
		app.PreviousInstitution = *input.PreviousInstitution
	}
	if input.PreviousGradePercent != nil {
		app.PreviousGradePercent = input.PreviousGradePercent
	}
	if input.Remarks != nil {
		app.Remarks = *input.Remarks
	}
}

// Submit moves the owning student's draft application to submitted
func (s *ApplicationService) Submit(ctx context.Context, actor domain.Actor, id uint) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrApplicationNotFound
	}

	if actor.Role != domain.RoleStudent || actor.UserID != app.UserID {
		return nil, ErrNotApplicationActor
	}
	if app.Status != models.StatusDraft {
		return nil, ErrNotDraft
	}

	fromStatus := app.Status
	now := time.Now()
	app.Status = models.StatusSubmitted
	app.SubmittedAt = &now

	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	s.appendHistory(ctx, &models.ApplicationStatusHistory{
		ApplicationID: app.ID,
		FromStatus:    &fromStatus,
		ToStatus:      models.StatusSubmitted,
		ChangedBy:     actor.UserID,
		Remarks:       "Application submitted",
	})

	if s.emitter != nil {
		s.emitter.ApplicationSubmitted(ctx, app)
	}

	return app, nil
}

// GetHistory returns the status ledger for one application
func (s *ApplicationService) GetHistory(ctx context.Context, actor domain.Actor, id uint) ([]*models.ApplicationStatusHistory, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrApplicationNotFound
	}
	if !actor.Can(domain.ActionView, domain.Resource{OwnerID: app.UserID, ProgramID: app.ProgramID}) {
		return nil, ErrNotApplicationActor
	}
	return s.historyRepo.ListByApplication(ctx, app.ID)
}

// StatisticsOutput represents per-year application statistics
type StatisticsOutput struct {
	AcademicYear string           `json:"academic_year"`
	Total        int64            `json:"total"`
	ByStatus     map[string]int64 `json:"by_status"`
}

// GetStatistics aggregates application counts for one academic year.
// Staff only; program admins are scoped to their own program.
func (s *ApplicationService) GetStatistics(ctx context.Context, actor domain.Actor, academicYear string) (*StatisticsOutput, error) {
	if !actor.IsStaff() {
		return nil, ErrStaffOnly
	}
	if academicYear == "" {
		return nil, ErrAcademicYearRequired
	}

	var programID *uint
	if actor.Role == domain.RoleProgramAdmin {
		if actor.ProgramID == nil {
			return nil, ErrStaffOnly
		}
		programID = actor.ProgramID
	}

	counts, total, err := s.appRepo.CountByStatus(ctx, academicYear, programID)
	if err != nil {
		return nil, err
	}

	byStatus := map[string]int64{
		models.StatusDraft:       0,
		models.StatusSubmitted:   0,
		models.StatusUnderReview: 0,
		models.StatusApproved:    0,
		models.StatusRejected:    0,
		models.StatusCancelled:   0,
		models.StatusFrozen:      0,
	}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}

	return &StatisticsOutput{
		AcademicYear: academicYear,
		Total:        total,
		ByStatus:     byStatus,
	}, nil
}

// appendHistory writes one ledger entry. The ledger is best-effort: a
// failed append is logged, not surfaced, so a crash between the status
// write and this one leaves state recoverable by manual reconciliation.
func (s *ApplicationService) appendHistory(ctx context.Context, entry *models.ApplicationStatusHistory) {
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to append status history for application %d: %v", entry.ApplicationID, err)
	}
}
