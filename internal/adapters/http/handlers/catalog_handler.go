package handlers

import (
	"strings"

	"admitdesk/internal/adapters/http/middleware"
	"admitdesk/internal/core/services"
	"admitdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles program and certificate-type master data
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ============================================================================
// PROGRAMS
// ============================================================================

// ListPrograms lists programs
// @Summary List programs
// @Description List programs; inactive ones only with include_inactive
// @Tags Programs
// @Produce json
// @Param include_inactive query bool false "Include inactive programs"
// @Success 200 {object} response.Response
// @Router /programs [get]
func (h *CatalogHandler) ListPrograms(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive", false)

	programs, err := h.catalogService.ListPrograms(c.Context(), includeInactive)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Programs retrieved successfully", fiber.Map{
		"programs": programs,
	})
}

// GetProgram returns one program
// @Summary Get program
// @Description Get one program by ID
// @Tags Programs
// @Produce json
// @Param id path int true "Program ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /programs/{id} [get]
func (h *CatalogHandler) GetProgram(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid program ID")
	}

	program, err := h.catalogService.GetProgram(c.Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Program retrieved successfully", fiber.Map{
		"program": program,
	})
}

// ProgramRequest represents program create/update request body
type ProgramRequest struct {
	ProgramCode   string `json:"program_code"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	AcademicLevel string `json:"academic_level"`
	DurationYears int    `json:"duration_years"`
	TotalSeats    int    `json:"total_seats"`
}

// CreateProgram creates a program
// @Summary Create program
// @Description Create a new program (admin only)
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ProgramRequest true "Program data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /programs [post]
func (h *CatalogHandler) CreateProgram(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.CreateProgramInput{
		ProgramCode:   strings.ToUpper(strings.TrimSpace(req.ProgramCode)),
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		AcademicLevel: req.AcademicLevel,
		DurationYears: req.DurationYears,
		TotalSeats:    req.TotalSeats,
	}

	program, err := h.catalogService.CreateProgram(c.Context(), actor, input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, "Program created successfully", fiber.Map{
		"program": program,
	})
}

// UpdateProgramRequest represents program update request body
type UpdateProgramRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	AcademicLevel *string `json:"academic_level"`
	DurationYears *int    `json:"duration_years"`
	TotalSeats    *int    `json:"total_seats"`
	IsActive      *bool   `json:"is_active"`
}

// UpdateProgram edits a program
// @Summary Update program
// @Description Update a program (admin only)
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Param body body UpdateProgramRequest true "Program data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /programs/{id} [put]
func (h *CatalogHandler) UpdateProgram(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid program ID")
	}

	var req UpdateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateProgramInput{
		Name:          req.Name,
		Description:   req.Description,
		AcademicLevel: req.AcademicLevel,
		DurationYears: req.DurationYears,
		TotalSeats:    req.TotalSeats,
		IsActive:      req.IsActive,
	}

	program, err := h.catalogService.UpdateProgram(c.Context(), actor, uint(id), input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Program updated successfully", fiber.Map{
		"program": program,
	})
}

// DeleteProgram removes a program
// @Summary Delete program
// @Description Delete a program (admin only)
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /programs/{id} [delete]
func (h *CatalogHandler) DeleteProgram(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid program ID")
	}

	if err := h.catalogService.DeleteProgram(c.Context(), actor, uint(id)); err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Program deleted successfully", nil)
}

// ============================================================================
// CERTIFICATE TYPES
// ============================================================================

// ListCertificateTypes lists certificate types
// @Summary List certificate types
// @Description List certificate types in display order
// @Tags CertificateTypes
// @Produce json
// @Param include_inactive query bool false "Include inactive types"
// @Success 200 {object} response.Response
// @Router /certificate-types [get]
func (h *CatalogHandler) ListCertificateTypes(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive", false)

	types, err := h.catalogService.ListCertificateTypes(c.Context(), includeInactive)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Certificate types retrieved successfully", fiber.Map{
		"certificate_types": types,
	})
}

// GetCertificateType returns one certificate type
// @Summary Get certificate type
// @Description Get one certificate type by ID
// @Tags CertificateTypes
// @Produce json
// @Param id path int true "Certificate type ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /certificate-types/{id} [get]
func (h *CatalogHandler) GetCertificateType(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid certificate type ID")
	}

	certType, err := h.catalogService.GetCertificateType(c.Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Certificate type retrieved successfully", fiber.Map{
		"certificate_type": certType,
	})
}

// CertificateTypeRequest represents certificate type create request body
type CertificateTypeRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	FileTypesAllowed string `json:"file_types_allowed"`
	MaxFileSizeMb    int    `json:"max_file_size_mb"`
	IsRequired       bool   `json:"is_required"`
	DisplayOrder     int    `json:"display_order"`
}

// CreateCertificateType creates a certificate type
// @Summary Create certificate type
// @Description Create a new certificate type (admin only)
// @Tags CertificateTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CertificateTypeRequest true "Certificate type data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /certificate-types [post]
func (h *CatalogHandler) CreateCertificateType(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CertificateTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.CreateCertificateTypeInput{
		Name:             strings.TrimSpace(req.Name),
		Description:      req.Description,
		FileTypesAllowed: req.FileTypesAllowed,
		MaxFileSizeMb:    req.MaxFileSizeMb,
		IsRequired:       req.IsRequired,
		DisplayOrder:     req.DisplayOrder,
	}

	certType, err := h.catalogService.CreateCertificateType(c.Context(), actor, input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, "Certificate type created successfully", fiber.Map{
		"certificate_type": certType,
	})
}

// UpdateCertificateTypeRequest represents certificate type update request body
type UpdateCertificateTypeRequest struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	FileTypesAllowed *string `json:"file_types_allowed"`
	MaxFileSizeMb    *int    `json:"max_file_size_mb"`
	IsRequired       *bool   `json:"is_required"`
	DisplayOrder     *int    `json:"display_order"`
	IsActive         *bool   `json:"is_active"`
}

// UpdateCertificateType edits a certificate type
// @Summary Update certificate type
// @Description Update a certificate type (admin only)
// @Tags CertificateTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Certificate type ID"
// @Param body body UpdateCertificateTypeRequest true "Certificate type data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /certificate-types/{id} [put]
func (h *CatalogHandler) UpdateCertificateType(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid certificate type ID")
	}

	var req UpdateCertificateTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateCertificateTypeInput{
		Name:             req.Name,
		Description:      req.Description,
		FileTypesAllowed: req.FileTypesAllowed,
		MaxFileSizeMb:    req.MaxFileSizeMb,
		IsRequired:       req.IsRequired,
		DisplayOrder:     req.DisplayOrder,
		IsActive:         req.IsActive,
	}

	certType, err := h.catalogService.UpdateCertificateType(c.Context(), actor, uint(id), input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Certificate type updated successfully", fiber.Map{
		"certificate_type": certType,
	})
}

// DeleteCertificateType removes a certificate type
// @Summary Delete certificate type
// @Description Delete a certificate type unless a program links to it (admin only)
// @Tags CertificateTypes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Certificate type ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /certificate-types/{id} [delete]
func (h *CatalogHandler) DeleteCertificateType(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid certificate type ID")
	}

	if err := h.catalogService.DeleteCertificateType(c.Context(), actor, uint(id)); err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Certificate type deleted successfully", nil)
}
