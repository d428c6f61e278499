package repositories

import (
	"context"

	"admitdesk/internal/adapters/persistence/models"
)

// UserRepository defines user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListProgramAdmins(ctx context.Context, programID uint) ([]*models.User, error)
}

// RefreshTokenRepository defines refresh-token data access
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// ApplicationFilter narrows application listings
type ApplicationFilter struct {
	Status       string
	ProgramID    *uint
	UserID       *uint
	AcademicYear string
	SortField    string
	SortOrder    string
	Offset       int
	Limit        int
}

// StatusCount is one row of the statistics aggregation
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ApplicationRepository defines application data access
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	List(ctx context.Context, filter *ApplicationFilter) ([]*models.Application, int64, error)
	Update(ctx context.Context, app *models.Application) error
	NextSequence(ctx context.Context, year int) (int64, error)
	CountByStatus(ctx context.Context, academicYear string, programID *uint) ([]StatusCount, int64, error)
	ListStaleSubmitted(ctx context.Context, olderThanDays int) ([]*models.Application, error)
}

// StatusHistoryRepository defines the append-only ledger access
type StatusHistoryRepository interface {
	Create(ctx context.Context, entry *models.ApplicationStatusHistory) error
	ListByApplication(ctx context.Context, applicationID uint) ([]*models.ApplicationStatusHistory, error)
}

// DocumentRepository defines application-document data access
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.ApplicationDocument) error
	GetByID(ctx context.Context, id uint) (*models.ApplicationDocument, error)
	GetByApplicationAndType(ctx context.Context, applicationID, certificateTypeID uint) (*models.ApplicationDocument, error)
	ListByApplication(ctx context.Context, applicationID uint) ([]*models.ApplicationDocument, error)
	Update(ctx context.Context, doc *models.ApplicationDocument) error
	Delete(ctx context.Context, id uint) error
	CountByFileUpload(ctx context.Context, fileUploadID uint) (int64, error)
}

// RequirementRepository defines program-certificate-requirement data access
type RequirementRepository interface {
	Create(ctx context.Context, req *models.ProgramCertificateRequirement) error
	GetByID(ctx context.Context, id uint) (*models.ProgramCertificateRequirement, error)
	GetActive(ctx context.Context, programID, certificateTypeID uint) (*models.ProgramCertificateRequirement, error)
	ListByProgram(ctx context.Context, programID uint, requiredOnly bool) ([]*models.ProgramCertificateRequirement, error)
	Update(ctx context.Context, req *models.ProgramCertificateRequirement) error
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, programID, certificateTypeID uint) (bool, error)
	ExistsByCertificateType(ctx context.Context, certificateTypeID uint) (bool, error)
}

// ProgramRepository defines program data access
type ProgramRepository interface {
	Create(ctx context.Context, program *models.Program) error
	GetByID(ctx context.Context, id uint) (*models.Program, error)
	GetByCode(ctx context.Context, code string) (*models.Program, error)
	List(ctx context.Context, includeInactive bool) ([]*models.Program, error)
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id uint) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// CertificateTypeRepository defines certificate-type data access
type CertificateTypeRepository interface {
	Create(ctx context.Context, ct *models.CertificateType) error
	GetByID(ctx context.Context, id uint) (*models.CertificateType, error)
	List(ctx context.Context, includeInactive bool) ([]*models.CertificateType, error)
	ListNotLinked(ctx context.Context, programID uint) ([]*models.CertificateType, error)
	Update(ctx context.Context, ct *models.CertificateType) error
	Delete(ctx context.Context, id uint) error
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// FileUploadRepository defines file-upload metadata access
type FileUploadRepository interface {
	Create(ctx context.Context, upload *models.FileUpload) error
	GetByID(ctx context.Context, id uint) (*models.FileUpload, error)
	Delete(ctx context.Context, id uint) error
}

// NotificationRepository defines notification data access
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uint, unreadOnly bool, offset, limit int) ([]*models.Notification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}
