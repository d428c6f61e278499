package handlers

import (
	"admitdesk/internal/adapters/http/middleware"
	"admitdesk/internal/core/services"
	"admitdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DocumentHandler handles application document endpoints
type DocumentHandler struct {
	documentService *services.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// parseAppAndDoc reads the application and document path params
func parseAppAndDoc(c *fiber.Ctx) (uint, uint, error) {
	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid application ID")
	}
	docID, err := c.ParamsInt("docId")
	if err != nil || docID <= 0 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid document ID")
	}
	return uint(appID), uint(docID), nil
}

// AttachDocumentRequest represents document attach request body
type AttachDocumentRequest struct {
	CertificateTypeID uint   `json:"certificate_type_id"`
	FileUploadID      uint   `json:"file_upload_id"`
	DocumentName      string `json:"document_name"`
	Remarks           string `json:"remarks"`
}

// Attach attaches an uploaded file to an application as a document
// @Summary Attach document
// @Description Attach an uploaded file to an application for a certificate type
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body AttachDocumentRequest true "Document data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/documents [post]
func (h *DocumentHandler) Attach(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req AttachDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CertificateTypeID == 0 || req.FileUploadID == 0 {
		return response.BadRequest(c, "certificate_type_id and file_upload_id are required")
	}

	input := &services.AttachDocumentInput{
		CertificateTypeID: req.CertificateTypeID,
		FileUploadID:      req.FileUploadID,
		DocumentName:      req.DocumentName,
		Remarks:           req.Remarks,
	}

	doc, err := h.documentService.Attach(c.Context(), actor, uint(appID), input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, "Document attached successfully", fiber.Map{
		"document": doc,
	})
}

// List lists the documents of an application
// @Summary List documents
// @Description List all documents of an application
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	docs, err := h.documentService.ListByApplication(c.Context(), actor, uint(appID))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Documents retrieved successfully", fiber.Map{
		"documents": docs,
	})
}

// UpdateDocumentRequest represents document update request body
type UpdateDocumentRequest struct {
	FileUploadID *uint   `json:"file_upload_id"`
	DocumentName *string `json:"document_name"`
	Remarks      *string `json:"remarks"`
}

// Update edits a document
// @Summary Update document
// @Description Update a document; replacing the file resets verification
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param docId path int true "Document ID"
// @Param body body UpdateDocumentRequest true "Document data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/documents/{docId} [put]
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appID, docID, err := parseAppAndDoc(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var req UpdateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateDocumentInput{
		FileUploadID: req.FileUploadID,
		DocumentName: req.DocumentName,
		Remarks:      req.Remarks,
	}

	doc, err := h.documentService.Update(c.Context(), actor, appID, docID, input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Document updated successfully", fiber.Map{
		"document": doc,
	})
}

// Delete removes a document
// @Summary Delete document
// @Description Delete a document from an application
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param docId path int true "Document ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/documents/{docId} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appID, docID, err := parseAppAndDoc(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.documentService.Delete(c.Context(), actor, appID, docID); err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Document deleted successfully", nil)
}

// VerifyDocumentRequest represents document verification request body
type VerifyDocumentRequest struct {
	IsVerified bool   `json:"is_verified"`
	Remarks    string `json:"remarks"`
}

// Verify sets a document's verification state
// @Summary Verify document
// @Description Mark a document verified or unverified (staff only)
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param docId path int true "Document ID"
// @Param body body VerifyDocumentRequest true "Verification data"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/documents/{docId}/verify [patch]
func (h *DocumentHandler) Verify(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appID, docID, err := parseAppAndDoc(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var req VerifyDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.VerifyDocumentInput{
		IsVerified: req.IsVerified,
		Remarks:    req.Remarks,
	}

	doc, err := h.documentService.Verify(c.Context(), actor, appID, docID, input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Document verification updated", fiber.Map{
		"document": doc,
	})
}

// VerificationStatus returns the completeness report for an application
// @Summary Verification status
// @Description Completeness and verification report for an application
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/documents/verification-status [get]
func (h *DocumentHandler) VerificationStatus(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	report, err := h.documentService.GetVerificationStatus(c.Context(), actor, uint(appID))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Verification status retrieved successfully", report)
}

// AvailableTypes lists the certificate types the application may attach
// @Summary Available certificate types
// @Description Certificate types the application's program accepts
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/documents/available-types [get]
func (h *DocumentHandler) AvailableTypes(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	types, err := h.documentService.GetAvailableTypes(c.Context(), actor, uint(appID))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Available types retrieved successfully", fiber.Map{
		"requirements": types,
	})
}
