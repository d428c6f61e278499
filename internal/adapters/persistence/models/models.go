package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents the users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FullName  string         `gorm:"size:150;not null" json:"full_name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'student'" json:"role"`
	ProgramID *uint          `gorm:"index" json:"program_id"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Program *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID          uint      `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	ProgramID   *uint     `json:"program_id,omitempty"`
	ProgramName string    `json:"program_name,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		ProgramID: u.ProgramID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if u.Program != nil {
		resp.ProgramName = u.Program.Name
	}
	return resp
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog Tables
// ============================================================

// Program represents the programs table
type Program struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ProgramCode   string         `gorm:"size:20;uniqueIndex;not null" json:"program_code"`
	Name          string         `gorm:"size:150;not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	AcademicLevel string         `gorm:"size:50" json:"academic_level"`
	DurationYears int            `gorm:"default:0" json:"duration_years"`
	TotalSeats    int            `gorm:"default:0" json:"total_seats"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Program) TableName() string {
	return "programs"
}

// CertificateType represents the certificate_types table.
// FileTypesAllowed is a comma-separated extension list, e.g. "pdf,jpg,png".
type CertificateType struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description      string         `gorm:"type:text" json:"description"`
	FileTypesAllowed string         `gorm:"size:100;default:'pdf,jpg,jpeg,png'" json:"file_types_allowed"`
	MaxFileSizeMb    int            `gorm:"default:5" json:"max_file_size_mb"`
	IsRequired       bool           `gorm:"default:true" json:"is_required"`
	DisplayOrder     int            `gorm:"default:0" json:"display_order"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CertificateType) TableName() string {
	return "certificate_types"
}

// ProgramCertificateRequirement binds a program to a certificate type.
// At most one active row exists per (program_id, certificate_type_id).
type ProgramCertificateRequirement struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	ProgramID           uint           `gorm:"not null;index:idx_program_cert,unique,where:deleted_at IS NULL" json:"program_id"`
	CertificateTypeID   uint           `gorm:"not null;index:idx_program_cert,unique,where:deleted_at IS NULL" json:"certificate_type_id"`
	IsRequired          bool           `gorm:"default:true" json:"is_required"`
	SpecialInstructions string         `gorm:"type:text" json:"special_instructions"`
	DisplayOrder        int            `gorm:"default:0" json:"display_order"`
	IsActive            bool           `gorm:"default:true" json:"is_active"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	Program         *Program         `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	CertificateType *CertificateType `gorm:"foreignKey:CertificateTypeID" json:"certificate_type,omitempty"`
}

func (ProgramCertificateRequirement) TableName() string {
	return "program_certificate_requirements"
}

// ============================================================
// File Uploads
// ============================================================

// FileUpload represents the file_uploads table. StoredName is the
// uuid-based name on disk; OriginalName is what the uploader sent.
type FileUpload struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	OriginalName string         `gorm:"size:255;not null" json:"original_name"`
	StoredName   string         `gorm:"size:100;uniqueIndex;not null" json:"stored_name"`
	MimeType     string         `gorm:"size:100" json:"mime_type"`
	SizeBytes    int64          `gorm:"not null" json:"size_bytes"`
	UploadedBy   uint           `gorm:"not null;index" json:"uploaded_by"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Uploader *User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

func (FileUpload) TableName() string {
	return "file_uploads"
}

// ============================================================
// Notifications
// ============================================================

// Notification types
const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyDanger  = "danger"
)

// Notification represents the notifications table
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Type      string    `gorm:"size:20;default:'info'" json:"type"`
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates/updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Program{},
		&CertificateType{},
		&ProgramCertificateRequirement{},
		&FileUpload{},
		&Notification{},
		&Application{},
		&ApplicationSequence{},
		&ApplicationStatusHistory{},
		&ApplicationDocument{},
	)
}
