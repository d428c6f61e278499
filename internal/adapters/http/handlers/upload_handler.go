package handlers

import (
	"log"
	"os"
	"path/filepath"

	"admitdesk/internal/adapters/http/middleware"
	"admitdesk/internal/config"
	"admitdesk/internal/core/services"
	"admitdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler handles file upload endpoints
type UploadHandler struct {
	fileService *services.FileService
	cfg         *config.Config
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(fileService *services.FileService, cfg *config.Config) *UploadHandler {
	return &UploadHandler{
		fileService: fileService,
		cfg:         cfg,
	}
}

// Upload stores a multipart file and records its metadata
// @Summary Upload file
// @Description Upload a file; returns the upload record to attach to a document
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /uploads [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "file is required")
	}

	if err := h.fileService.ValidateUpload(fileHeader.Filename, fileHeader.Size); err != nil {
		return respondError(c, err)
	}

	if err := os.MkdirAll(h.cfg.Storage.UploadDir, 0o755); err != nil {
		log.Printf("⚠️ Failed to create upload dir: %v", err)
		return response.InternalServerError(c, "Failed to store file")
	}

	storedName := h.fileService.StoredName(fileHeader.Filename)
	destPath := filepath.Join(h.cfg.Storage.UploadDir, storedName)

	if err := c.SaveFile(fileHeader, destPath); err != nil {
		log.Printf("⚠️ Failed to save upload: %v", err)
		return response.InternalServerError(c, "Failed to store file")
	}

	upload, err := h.fileService.Register(
		c.Context(),
		actor,
		fileHeader.Filename,
		storedName,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
	)
	if err != nil {
		// Metadata failed; don't leave orphan bytes behind
		_ = os.Remove(destPath)
		return respondError(c, err)
	}

	return response.Created(c, "File uploaded successfully", fiber.Map{
		"file": upload,
	})
}

// Download streams a stored file back to the caller
// @Summary Download file
// @Description Download an uploaded file by ID
// @Tags Uploads
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "File upload ID"
// @Success 200 {file} binary
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /uploads/{id} [get]
func (h *UploadHandler) Download(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid file ID")
	}

	upload, err := h.fileService.Get(c.Context(), actor, uint(id))
	if err != nil {
		return respondError(c, err)
	}

	path := filepath.Join(h.cfg.Storage.UploadDir, upload.StoredName)
	if _, err := os.Stat(path); err != nil {
		log.Printf("⚠️ Upload %d missing on disk: %s", upload.ID, upload.StoredName)
		return response.NotFound(c, "File not found on storage")
	}

	c.Set("Content-Disposition", `attachment; filename="`+upload.OriginalName+`"`)
	return c.SendFile(path)
}

// Delete removes an uploaded file
// @Summary Delete file
// @Description Delete an uploaded file unless a document references it
// @Tags Uploads
// @Produce json
// @Security BearerAuth
// @Param id path int true "File upload ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /uploads/{id} [delete]
func (h *UploadHandler) Delete(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid file ID")
	}

	upload, err := h.fileService.Delete(c.Context(), actor, uint(id))
	if err != nil {
		return respondError(c, err)
	}

	path := filepath.Join(h.cfg.Storage.UploadDir, upload.StoredName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Failed to remove %s from disk: %v", upload.StoredName, err)
	}

	return response.Success(c, "File deleted successfully", nil)
}
