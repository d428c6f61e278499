package handlers

import (
	"time"

	"admitdesk/internal/adapters/http/middleware"
	"admitdesk/internal/core/services"
	"admitdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles application lifecycle endpoints
type ApplicationHandler struct {
	appService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(appService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// applicationBody is the shared request shape for create and update.
// Pointer fields distinguish "absent" from "set to empty".
type applicationBody struct {
	ProgramID            uint     `json:"program_id"`
	AcademicYear         *string  `json:"academic_year"`
	FullName             *string  `json:"full_name"`
	Email                *string  `json:"email"`
	MobileNumber         *string  `json:"mobile_number"`
	DateOfBirth          *string  `json:"date_of_birth"`
	Gender               *string  `json:"gender"`
	Address              *string  `json:"address"`
	City                 *string  `json:"city"`
	State                *string  `json:"state"`
	PostalCode           *string  `json:"postal_code"`
	GuardianName         *string  `json:"guardian_name"`
	GuardianContact      *string  `json:"guardian_contact"`
	PreviousInstitution  *string  `json:"previous_institution"`
	PreviousGradePercent *float64 `json:"previous_grade_percent"`
	Remarks              *string  `json:"remarks"`
	Status               *string  `json:"status"`
	StatusRemarks        string   `json:"status_remarks"`
}

// parseDateOfBirth parses the YYYY-MM-DD date-of-birth field
func parseDateOfBirth(raw *string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create creates a new draft application
// @Summary Create application
// @Description Create a new draft application for a program
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body applicationBody true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req applicationBody
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	dob, ok := parseDateOfBirth(req.DateOfBirth)
	if !ok {
		return response.BadRequest(c, "date_of_birth must be YYYY-MM-DD")
	}

	input := &services.CreateApplicationInput{
		ProgramID:            req.ProgramID,
		AcademicYear:         deref(req.AcademicYear),
		FullName:             deref(req.FullName),
		Email:                deref(req.Email),
		MobileNumber:         deref(req.MobileNumber),
		DateOfBirth:          dob,
		Gender:               deref(req.Gender),
		Address:              deref(req.Address),
		City:                 deref(req.City),
		State:                deref(req.State),
		PostalCode:           deref(req.PostalCode),
		GuardianName:         deref(req.GuardianName),
		GuardianContact:      deref(req.GuardianContact),
		PreviousInstitution:  deref(req.PreviousInstitution),
		PreviousGradePercent: req.PreviousGradePercent,
		Remarks:              deref(req.Remarks),
	}

	app, err := h.appService.Create(c.Context(), actor, input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, "Application created successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}

// List lists applications visible to the caller
// @Summary List applications
// @Description List applications scoped to the caller's role
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param program_id query int false "Filter by program"
// @Param academic_year query string false "Filter by academic year"
// @Param sort query string false "Sort field"
// @Param order query string false "Sort order (asc/desc)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	input := &services.ListApplicationsInput{
		Status:       c.Query("status"),
		AcademicYear: c.Query("academic_year"),
		SortField:    c.Query("sort", "created_at"),
		SortOrder:    c.Query("order", "desc"),
		Page:         c.QueryInt("page", 1),
		Limit:        c.QueryInt("limit", 20),
	}
	if programID := c.QueryInt("program_id", 0); programID > 0 {
		id := uint(programID)
		input.ProgramID = &id
	}

	result, err := h.appService.List(c.Context(), actor, input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Applications retrieved successfully", result)
}

// Get returns one application
// @Summary Get application
// @Description Get one application by ID
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.appService.GetByID(c.Context(), actor, uint(id))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Application retrieved successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}

// Update edits an application
// @Summary Update application
// @Description Update application fields; staff may change status
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body applicationBody true "Application data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /applications/{id} [put]
func (h *ApplicationHandler) Update(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req applicationBody
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	dob, ok := parseDateOfBirth(req.DateOfBirth)
	if !ok {
		return response.BadRequest(c, "date_of_birth must be YYYY-MM-DD")
	}

	input := &services.UpdateApplicationInput{
		AcademicYear:         req.AcademicYear,
		FullName:             req.FullName,
		Email:                req.Email,
		MobileNumber:         req.MobileNumber,
		DateOfBirth:          dob,
		Gender:               req.Gender,
		Address:              req.Address,
		City:                 req.City,
		State:                req.State,
		PostalCode:           req.PostalCode,
		GuardianName:         req.GuardianName,
		GuardianContact:      req.GuardianContact,
		PreviousInstitution:  req.PreviousInstitution,
		PreviousGradePercent: req.PreviousGradePercent,
		Remarks:              req.Remarks,
		Status:               req.Status,
		StatusRemarks:        req.StatusRemarks,
	}

	app, err := h.appService.Update(c.Context(), actor, uint(id), input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Application updated successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}

// Submit moves a draft application to submitted
// @Summary Submit application
// @Description Submit a draft application for review
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /applications/{id}/submit [post]
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.appService.Submit(c.Context(), actor, uint(id))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Application submitted successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}

// History returns the status-change ledger of an application
// @Summary Get application history
// @Description Get the full status-change history of an application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/history [get]
func (h *ApplicationHandler) History(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	history, err := h.appService.GetHistory(c.Context(), actor, uint(id))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "History retrieved successfully", fiber.Map{
		"history": history,
	})
}

// Statistics returns per-status application counts
// @Summary Application statistics
// @Description Per-status counts for an academic year (staff only)
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param academic_year query string true "Academic year"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /applications/statistics [get]
func (h *ApplicationHandler) Statistics(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	stats, err := h.appService.GetStatistics(c.Context(), actor, c.Query("academic_year"))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Statistics retrieved successfully", stats)
}
