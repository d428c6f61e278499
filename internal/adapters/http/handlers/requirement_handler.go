package handlers

import (
	"admitdesk/internal/adapters/http/middleware"
	"admitdesk/internal/core/services"
	"admitdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequirementHandler handles program certificate-requirement endpoints
type RequirementHandler struct {
	requirementService *services.RequirementService
}

// NewRequirementHandler creates a new requirement handler
func NewRequirementHandler(requirementService *services.RequirementService) *RequirementHandler {
	return &RequirementHandler{requirementService: requirementService}
}

// parseProgramID reads the program path param
func parseProgramID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// List lists a program's active requirements
// @Summary List requirements
// @Description List the active certificate requirements of a program
// @Tags Requirements
// @Produce json
// @Param id path int true "Program ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /programs/{id}/requirements [get]
func (h *RequirementHandler) List(c *fiber.Ctx) error {
	programID, ok := parseProgramID(c)
	if !ok {
		return response.BadRequest(c, "Invalid program ID")
	}

	reqs, err := h.requirementService.ListByProgram(c.Context(), programID)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Requirements retrieved successfully", fiber.Map{
		"requirements": reqs,
	})
}

// Available lists certificate types not yet linked to a program
// @Summary Available certificate types
// @Description Certificate types that can still be linked to the program
// @Tags Requirements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /programs/{id}/requirements/available [get]
func (h *RequirementHandler) Available(c *fiber.Ctx) error {
	programID, ok := parseProgramID(c)
	if !ok {
		return response.BadRequest(c, "Invalid program ID")
	}

	types, err := h.requirementService.ListAvailable(c.Context(), programID)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Available certificate types retrieved successfully", fiber.Map{
		"certificate_types": types,
	})
}

// CreateRequirementRequest represents requirement create request body
type CreateRequirementRequest struct {
	CertificateTypeID   uint   `json:"certificate_type_id"`
	IsRequired          *bool  `json:"is_required"`
	SpecialInstructions string `json:"special_instructions"`
	DisplayOrder        int    `json:"display_order"`
}

// Create links a certificate type to a program
// @Summary Create requirement
// @Description Link a certificate type to a program (staff only)
// @Tags Requirements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Param body body CreateRequirementRequest true "Requirement data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /programs/{id}/requirements [post]
func (h *RequirementHandler) Create(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	programID, ok := parseProgramID(c)
	if !ok {
		return response.BadRequest(c, "Invalid program ID")
	}

	var req CreateRequirementRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CertificateTypeID == 0 {
		return response.BadRequest(c, "certificate_type_id is required")
	}

	input := &services.CreateRequirementInput{
		CertificateTypeID:   req.CertificateTypeID,
		IsRequired:          req.IsRequired,
		SpecialInstructions: req.SpecialInstructions,
		DisplayOrder:        req.DisplayOrder,
	}

	requirement, err := h.requirementService.Create(c.Context(), actor, programID, input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, "Requirement created successfully", fiber.Map{
		"requirement": requirement,
	})
}

// UpdateRequirementRequest represents requirement update request body
type UpdateRequirementRequest struct {
	IsRequired          *bool   `json:"is_required"`
	SpecialInstructions *string `json:"special_instructions"`
	DisplayOrder        *int    `json:"display_order"`
	IsActive            *bool   `json:"is_active"`
}

// Update edits a requirement
// @Summary Update requirement
// @Description Update a program requirement (staff only)
// @Tags Requirements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Param reqId path int true "Requirement ID"
// @Param body body UpdateRequirementRequest true "Requirement data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /programs/{id}/requirements/{reqId} [put]
func (h *RequirementHandler) Update(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	programID, ok := parseProgramID(c)
	if !ok {
		return response.BadRequest(c, "Invalid program ID")
	}
	reqID, err := c.ParamsInt("reqId")
	if err != nil || reqID <= 0 {
		return response.BadRequest(c, "Invalid requirement ID")
	}

	var req UpdateRequirementRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateRequirementInput{
		IsRequired:          req.IsRequired,
		SpecialInstructions: req.SpecialInstructions,
		DisplayOrder:        req.DisplayOrder,
		IsActive:            req.IsActive,
	}

	requirement, err := h.requirementService.Update(c.Context(), actor, programID, uint(reqID), input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Requirement updated successfully", fiber.Map{
		"requirement": requirement,
	})
}

// Delete removes a requirement
// @Summary Delete requirement
// @Description Delete a program requirement (staff only)
// @Tags Requirements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Param reqId path int true "Requirement ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /programs/{id}/requirements/{reqId} [delete]
func (h *RequirementHandler) Delete(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	programID, ok := parseProgramID(c)
	if !ok {
		return response.BadRequest(c, "Invalid program ID")
	}
	reqID, err := c.ParamsInt("reqId")
	if err != nil || reqID <= 0 {
		return response.BadRequest(c, "Invalid requirement ID")
	}

	if err := h.requirementService.Delete(c.Context(), actor, programID, uint(reqID)); err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Requirement deleted successfully", nil)
}

// ReorderRequest represents the bulk reorder request body
type ReorderRequest struct {
	Items []services.ReorderItem `json:"items"`
}

// Reorder applies display-order changes in bulk
// @Summary Reorder requirements
// @Description Apply display-order changes; failures are skipped and the resulting set is returned
// @Tags Requirements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Param body body ReorderRequest true "Reorder items"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /programs/{id}/requirements/reorder [patch]
func (h *RequirementHandler) Reorder(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	programID, ok := parseProgramID(c)
	if !ok {
		return response.BadRequest(c, "Invalid program ID")
	}

	var req ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(req.Items) == 0 {
		return response.BadRequest(c, "items is required")
	}

	reqs, err := h.requirementService.Reorder(c.Context(), actor, programID, req.Items)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Requirements reordered", fiber.Map{
		"requirements": reqs,
	})
}
