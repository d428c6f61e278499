package models

import (
	"time"

	"gorm.io/gorm"
)

// Application statuses
const (
	StatusDraft       = "draft"
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusCancelled   = "cancelled"
	StatusFrozen      = "frozen"
)

// ValidStatus reports whether s is a known application status
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved,
		StatusRejected, StatusCancelled, StatusFrozen:
		return true
	}
	return false
}

// Application represents the applications table.
// Profile fields are opaque to the lifecycle engine: they are stored and
// returned but never interpreted.
type Application struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	ApplicationNumber string `gorm:"size:20;uniqueIndex;not null" json:"application_number"`
	UserID            uint   `gorm:"not null;index" json:"user_id"`
	ProgramID         uint   `gorm:"not null;index" json:"program_id"`
	AcademicYear      string `gorm:"size:10;not null;index" json:"academic_year"`
	Status            string `gorm:"size:20;not null;default:'draft';index" json:"status"`

	// Student profile
	FullName             string     `gorm:"size:150;not null" json:"full_name"`
	Email                string     `gorm:"size:100" json:"email"`
	MobileNumber         string     `gorm:"size:20" json:"mobile_number"`
	DateOfBirth          *time.Time `gorm:"type:date" json:"date_of_birth"`
	Gender               string     `gorm:"size:20" json:"gender"`
	Address              string     `gorm:"type:text" json:"address"`
	City                 string     `gorm:"size:100" json:"city"`
	State                string     `gorm:"size:100" json:"state"`
	PostalCode           string     `gorm:"size:20" json:"postal_code"`
	GuardianName         string     `gorm:"size:150" json:"guardian_name"`
	GuardianContact      string     `gorm:"size:20" json:"guardian_contact"`
	PreviousInstitution  string     `gorm:"size:200" json:"previous_institution"`
	PreviousGradePercent *float64   `gorm:"type:decimal(5,2)" json:"previous_grade_percent"`
	Remarks              string     `gorm:"type:text" json:"remarks"`

	// Lifecycle timestamps, each stamped exactly once
	SubmittedAt *time.Time `json:"submitted_at"`
	ReviewedBy  *uint      `json:"reviewed_by"`
	ReviewedAt  *time.Time `json:"reviewed_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Applicant *User    `gorm:"foreignKey:UserID" json:"applicant,omitempty"`
	Program   *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	Reviewer  *User    `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// ApplicationResponse DTO with referenced entities expanded for display
type ApplicationResponse struct {
	ID                   uint       `json:"id"`
	ApplicationNumber    string     `json:"application_number"`
	UserID               uint       `json:"user_id"`
	ApplicantName        string     `json:"applicant_name,omitempty"`
	ApplicantEmail       string     `json:"applicant_email,omitempty"`
	ProgramID            uint       `json:"program_id"`
	ProgramCode          string     `json:"program_code,omitempty"`
	ProgramName          string     `json:"program_name,omitempty"`
	AcademicYear         string     `json:"academic_year"`
	Status               string     `json:"status"`
	FullName             string     `json:"full_name"`
	Email                string     `json:"email"`
	MobileNumber         string     `json:"mobile_number"`
	DateOfBirth          *time.Time `json:"date_of_birth"`
	Gender               string     `json:"gender"`
	Address              string     `json:"address"`
	City                 string     `json:"city"`
	State                string     `json:"state"`
	PostalCode           string     `json:"postal_code"`
	GuardianName         string     `json:"guardian_name"`
	GuardianContact      string     `json:"guardian_contact"`
	PreviousInstitution  string     `json:"previous_institution"`
	PreviousGradePercent *float64   `json:"previous_grade_percent"`
	Remarks              string     `json:"remarks"`
	SubmittedAt          *time.Time `json:"submitted_at"`
	ReviewedBy           *uint      `json:"reviewed_by"`
	ReviewedAt           *time.Time `json:"reviewed_at"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (a *Application) ToResponse() *ApplicationResponse {
	resp := &ApplicationResponse{
		ID:                   a.ID,
		ApplicationNumber:    a.ApplicationNumber,
		UserID:               a.UserID,
		ProgramID:            a.ProgramID,
		AcademicYear:         a.AcademicYear,
		Status:               a.Status,
		FullName:             a.FullName,
		Email:                a.Email,
		MobileNumber:         a.MobileNumber,
		DateOfBirth:          a.DateOfBirth,
		Gender:               a.Gender,
		Address:              a.Address,
		City:                 a.City,
		State:                a.State,
		PostalCode:           a.PostalCode,
		GuardianName:         a.GuardianName,
		GuardianContact:      a.GuardianContact,
		PreviousInstitution:  a.PreviousInstitution,
		PreviousGradePercent: a.PreviousGradePercent,
		Remarks:              a.Remarks,
		SubmittedAt:          a.SubmittedAt,
		ReviewedBy:           a.ReviewedBy,
		ReviewedAt:           a.ReviewedAt,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}

	if a.Applicant != nil {
		resp.ApplicantName = a.Applicant.FullName
		resp.ApplicantEmail = a.Applicant.Email
	}
	if a.Program != nil {
		resp.ProgramCode = a.Program.ProgramCode
		resp.ProgramName = a.Program.Name
	}

	return resp
}

// ApplicationSequence backs atomic application-number allocation,
// one row per 2-digit year.
type ApplicationSequence struct {
	Year      int   `gorm:"primaryKey" json:"year"`
	LastValue int64 `gorm:"not null;default:0" json:"last_value"`
}

func (ApplicationSequence) TableName() string {
	return "application_sequences"
}

// ApplicationStatusHistory is the append-only status ledger.
// FromStatus is nil only for the creation entry. Rows are never updated.
type ApplicationStatusHistory struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID uint      `gorm:"not null;index" json:"application_id"`
	FromStatus    *string   `gorm:"size:20" json:"from_status"`
	ToStatus      string    `gorm:"size:20;not null" json:"to_status"`
	ChangedBy     uint      `gorm:"not null" json:"changed_by"`
	Remarks       string    `gorm:"type:text" json:"remarks"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	Application *Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
	Changer     *User        `gorm:"foreignKey:ChangedBy" json:"changer,omitempty"`
}

func (ApplicationStatusHistory) TableName() string {
	return "application_status_histories"
}

// ApplicationDocument is one submitted file against one requirement.
// At most one row exists per (application_id, certificate_type_id).
type ApplicationDocument struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	ApplicationID       uint       `gorm:"not null;index:idx_app_cert,unique,where:deleted_at IS NULL" json:"application_id"`
	CertificateTypeID   uint       `gorm:"not null;index:idx_app_cert,unique,where:deleted_at IS NULL" json:"certificate_type_id"`
	FileUploadID        uint       `gorm:"not null" json:"file_upload_id"`
	DocumentName        string     `gorm:"size:200" json:"document_name"`
	Remarks             string     `gorm:"type:text" json:"remarks"`
	IsVerified          bool       `gorm:"default:false" json:"is_verified"`
	VerifiedBy          *uint      `json:"verified_by"`
	VerifiedAt          *time.Time `json:"verified_at"`
	VerificationRemarks string     `gorm:"type:text" json:"verification_remarks"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Application     *Application     `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
	CertificateType *CertificateType `gorm:"foreignKey:CertificateTypeID" json:"certificate_type,omitempty"`
	FileUpload      *FileUpload      `gorm:"foreignKey:FileUploadID" json:"file_upload,omitempty"`
	Verifier        *User            `gorm:"foreignKey:VerifiedBy" json:"verifier,omitempty"`
}

func (ApplicationDocument) TableName() string {
	return "application_documents"
}

// ResetVerification clears the verification sub-state. Called whenever the
// underlying file reference changes.
func (d *ApplicationDocument) ResetVerification() {
	d.IsVerified = false
	d.VerifiedBy = nil
	d.VerifiedAt = nil
	d.VerificationRemarks = ""
}
