package repositories

import (
	"context"

	"admitdesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// documentRepository is the GORM-backed DocumentRepository
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new application-document repository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.ApplicationDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) GetByID(ctx context.Context, id uint) (*models.ApplicationDocument, error) {
	var doc models.ApplicationDocument
	err := r.db.WithContext(ctx).
		Preload("CertificateType").
		Preload("FileUpload").
		Preload("FileUpload.Uploader").
		Preload("Verifier").
		First(&doc, id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) GetByApplicationAndType(ctx context.Context, applicationID, certificateTypeID uint) (*models.ApplicationDocument, error) {
	var doc models.ApplicationDocument
	err := r.db.WithContext(ctx).
		Where("application_id = ? AND certificate_type_id = ?", applicationID, certificateTypeID).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) ListByApplication(ctx context.Context, applicationID uint) ([]*models.ApplicationDocument, error) {
	var docs []*models.ApplicationDocument
	err := r.db.WithContext(ctx).
		Preload("CertificateType").
		Preload("FileUpload").
		Preload("FileUpload.Uploader").
		Preload("Verifier").
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&docs).Error
	return docs, err
}

func (r *documentRepository) Update(ctx context.Context, doc *models.ApplicationDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *documentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ApplicationDocument{}, id).Error
}

func (r *documentRepository) CountByFileUpload(ctx context.Context, fileUploadID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ApplicationDocument{}).
		Where("file_upload_id = ?", fileUploadID).
		Count(&count).Error
	return count, err
}

// fileUploadRepository is the GORM-backed FileUploadRepository
type fileUploadRepository struct {
	db *gorm.DB
}

// NewFileUploadRepository creates a new file-upload repository
func NewFileUploadRepository(db *gorm.DB) FileUploadRepository {
	return &fileUploadRepository{db: db}
}

func (r *fileUploadRepository) Create(ctx context.Context, upload *models.FileUpload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

func (r *fileUploadRepository) GetByID(ctx context.Context, id uint) (*models.FileUpload, error) {
	var upload models.FileUpload
	err := r.db.WithContext(ctx).Preload("Uploader").First(&upload, id).Error
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *fileUploadRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.FileUpload{}, id).Error
}
