package services

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"admitdesk/internal/adapters/persistence/models"
	"admitdesk/internal/adapters/persistence/repositories"
	"admitdesk/internal/core/domain"

	"github.com/google/uuid"
)

// File service errors
var (
	ErrUploadNotFound   = fmt.Errorf("%w: file upload", domain.ErrNotFound)
	ErrUploadTooLarge   = fmt.Errorf("%w: file exceeds the size limit", domain.ErrInvalidArgument)
	ErrUploadBadType    = fmt.Errorf("%w: file type is not allowed", domain.ErrInvalidArgument)
	ErrUploadReferenced = fmt.Errorf("%w: file is attached to a document", domain.ErrConflict)
	ErrNotUploadOwner   = fmt.Errorf("%w: not the uploader", domain.ErrForbidden)
)

// FileService manages upload metadata. Bytes live on local disk under the
// configured upload directory; records here are the source of truth for
// names, ownership and reference counting.
type FileService struct {
	fileRepo     repositories.FileUploadRepository
	documentRepo repositories.DocumentRepository
	maxUploadMb  int
	allowedTypes map[string]bool
}

// NewFileService creates a new file service. allowedTypes is a comma
// separated extension list, e.g. "pdf,jpg,jpeg,png".
func NewFileService(
	fileRepo repositories.FileUploadRepository,
	documentRepo repositories.DocumentRepository,
	maxUploadMb int,
	allowedTypes string,
) *FileService {
	allowed := make(map[string]bool)
	for _, ext := range strings.Split(allowedTypes, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			allowed[ext] = true
		}
	}
	return &FileService{
		fileRepo:     fileRepo,
		documentRepo: documentRepo,
		maxUploadMb:  maxUploadMb,
		allowedTypes: allowed,
	}
}

// ValidateUpload checks the global upload policy before any bytes are
// written. Per-certificate-type limits are enforced at attach time.
func (s *FileService) ValidateUpload(originalName string, sizeBytes int64) error {
	if sizeBytes > int64(s.maxUploadMb)*1024*1024 {
		return ErrUploadTooLarge
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if !s.allowedTypes[ext] {
		return ErrUploadBadType
	}
	return nil
}

// StoredName derives the on-disk name for an upload: a fresh UUID with
// the original extension, never the client-supplied name.
func (s *FileService) StoredName(originalName string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
}

// Register records upload metadata after the bytes are on disk
func (s *FileService) Register(ctx context.Context, actor domain.Actor, originalName, storedName, mimeType string, sizeBytes int64) (*models.FileUpload, error) {
	upload := &models.FileUpload{
		OriginalName: originalName,
		StoredName:   storedName,
		MimeType:     mimeType,
		SizeBytes:    sizeBytes,
		UploadedBy:   actor.UserID,
	}
	if err := s.fileRepo.Create(ctx, upload); err != nil {
		return nil, err
	}

	log.Printf("✅ File uploaded: %s (%d bytes) by user %d", originalName, sizeBytes, actor.UserID)
	return upload, nil
}

// Get fetches upload metadata. Only the uploader and staff may read it.
func (s *FileService) Get(ctx context.Context, actor domain.Actor, id uint) (*models.FileUpload, error) {
	upload, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrUploadNotFound
	}
	if upload.UploadedBy != actor.UserID && !actor.IsStaff() {
		return nil, ErrNotUploadOwner
	}
	return upload, nil
}

// Delete removes an upload record. Refused while any document still
// references the file; the caller removes the bytes afterwards.
func (s *FileService) Delete(ctx context.Context, actor domain.Actor, id uint) (*models.FileUpload, error) {
	upload, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrUploadNotFound
	}
	if upload.UploadedBy != actor.UserID && actor.Role != domain.RoleAdmin {
		return nil, ErrNotUploadOwner
	}

	refs, err := s.documentRepo.CountByFileUpload(ctx, id)
	if err != nil {
		return nil, err
	}
	if refs > 0 {
		return nil, ErrUploadReferenced
	}

	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return upload, nil
}
