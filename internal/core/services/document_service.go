package services

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"admitdesk/internal/adapters/persistence/models"
	"admitdesk/internal/adapters/persistence/repositories"
	"admitdesk/internal/core/domain"
)

// Document service errors
var (
	ErrDocumentNotFound   = fmt.Errorf("%w: document", domain.ErrNotFound)
	ErrFileNotFound       = fmt.Errorf("%w: file upload", domain.ErrNotFound)
	ErrNotRequired        = fmt.Errorf("%w: certificate type is not required for this program", domain.ErrInvalidArgument)
	ErrDocumentExists     = fmt.Errorf("%w: a document for this certificate type already exists", domain.ErrConflict)
	ErrNotDocumentOwner   = fmt.Errorf("%w: no access to this document", domain.ErrForbidden)
	ErrVerifyNotPermitted = fmt.Errorf("%w: only program staff may verify documents", domain.ErrForbidden)
)

// DocumentService owns application documents and the verification report:
// attaching files against program requirements, the verification sub-state,
// and the completeness computation.
type DocumentService struct {
	appRepo         repositories.ApplicationRepository
	documentRepo    repositories.DocumentRepository
	requirementRepo repositories.RequirementRepository
	fileRepo        repositories.FileUploadRepository
}

// NewDocumentService creates a new document service
func NewDocumentService(
	appRepo repositories.ApplicationRepository,
	documentRepo repositories.DocumentRepository,
	requirementRepo repositories.RequirementRepository,
	fileRepo repositories.FileUploadRepository,
) *DocumentService {
	return &DocumentService{
		appRepo:         appRepo,
		documentRepo:    documentRepo,
		requirementRepo: requirementRepo,
		fileRepo:        fileRepo,
	}
}

// loadAuthorized fetches the application and checks the actor can act on it
func (s *DocumentService) loadAuthorized(ctx context.Context, actor domain.Actor, applicationID uint, action domain.Action) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, ErrApplicationNotFound
	}
	if !actor.Can(action, domain.Resource{OwnerID: app.UserID, ProgramID: app.ProgramID}) {
		return nil, ErrNotApplicationActor
	}
	return app, nil
}

// AttachDocumentInput represents attach input
type AttachDocumentInput struct {
	CertificateTypeID uint
	FileUploadID      uint
	DocumentName      string
	Remarks           string
}

// Attach creates a document for one of the program's active requirements.
// The referenced file must exist and satisfy the certificate type's file
// policy, and the (application, certificate type) pair must be free.
func (s *DocumentService) Attach(ctx context.Context, actor domain.Actor, applicationID uint, input *AttachDocumentInput) (*models.ApplicationDocument, error) {
	app, err := s.loadAuthorized(ctx, actor, applicationID, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if input.CertificateTypeID == 0 {
		return nil, fmt.Errorf("%w: certificate type is required", domain.ErrInvalidArgument)
	}
	if input.FileUploadID == 0 {
		return nil, fmt.Errorf("%w: file upload is required", domain.ErrInvalidArgument)
	}

	requirement, err := s.requirementRepo.GetActive(ctx, app.ProgramID, input.CertificateTypeID)
	if err != nil {
		return nil, ErrNotRequired
	}

	upload, err := s.fileRepo.GetByID(ctx, input.FileUploadID)
	if err != nil {
		return nil, ErrFileNotFound
	}

	if requirement.CertificateType != nil {
		if err := checkFilePolicy(requirement.CertificateType, upload); err != nil {
			return nil, err
		}
	}

	if _, err := s.documentRepo.GetByApplicationAndType(ctx, applicationID, input.CertificateTypeID); err == nil {
		return nil, ErrDocumentExists
	}

	doc := &models.ApplicationDocument{
		ApplicationID:     applicationID,
		CertificateTypeID: input.CertificateTypeID,
		FileUploadID:      input.FileUploadID,
		DocumentName:      input.DocumentName,
		Remarks:           input.Remarks,
		IsVerified:        false,
	}
	if doc.DocumentName == "" {
		doc.DocumentName = upload.OriginalName
	}

	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	return s.documentRepo.GetByID(ctx, doc.ID)
}

// checkFilePolicy validates the upload against the certificate type's
// extension whitelist and size cap.
func checkFilePolicy(ct *models.CertificateType, upload *models.FileUpload) error {
	if ct.MaxFileSizeMb > 0 && upload.SizeBytes > int64(ct.MaxFileSizeMb)*1024*1024 {
		return fmt.Errorf("%w: file exceeds the %d MB limit for %s", domain.ErrInvalidArgument, ct.MaxFileSizeMb, ct.Name)
	}
	if ct.FileTypesAllowed == "" {
		return nil
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(upload.OriginalName), "."))
	for _, allowed := range strings.Split(ct.FileTypesAllowed, ",") {
		if ext == strings.TrimSpace(strings.ToLower(allowed)) {
			return nil
		}
	}
	return fmt.Errorf("%w: file type .%s is not allowed for %s", domain.ErrInvalidArgument, ext, ct.Name)
}

// ListByApplication returns all documents of one application
func (s *DocumentService) ListByApplication(ctx context.Context, actor domain.Actor, applicationID uint) ([]*models.ApplicationDocument, error) {
	if _, err := s.loadAuthorized(ctx, actor, applicationID, domain.ActionView); err != nil {
		return nil, err
	}
	return s.documentRepo.ListByApplication(ctx, applicationID)
}

// UpdateDocumentInput represents document-update input
type UpdateDocumentInput struct {
	FileUploadID *uint
	DocumentName *string
	Remarks      *string
}

// Update edits a document. A changed file reference invalidates any prior
// verification, regardless of who makes the change.
func (s *DocumentService) Update(ctx context.Context, actor domain.Actor, applicationID, documentID uint, input *UpdateDocumentInput) (*models.ApplicationDocument, error) {
	app, err := s.loadAuthorized(ctx, actor, applicationID, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}

	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil || doc.ApplicationID != app.ID {
		return nil, ErrDocumentNotFound
	}

	if input.FileUploadID != nil && *input.FileUploadID != doc.FileUploadID {
		upload, err := s.fileRepo.GetByID(ctx, *input.FileUploadID)
		if err != nil {
			return nil, ErrFileNotFound
		}
		if doc.CertificateType != nil {
			if err := checkFilePolicy(doc.CertificateType, upload); err != nil {
				return nil, err
			}
		}
		doc.FileUploadID = *input.FileUploadID
		doc.ResetVerification()
	}
	if input.DocumentName != nil {
		doc.DocumentName = *input.DocumentName
	}
	if input.Remarks != nil {
		doc.Remarks = *input.Remarks
	}

	if err := s.documentRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	return s.documentRepo.GetByID(ctx, doc.ID)
}

// Delete removes a document. Allowed for the owning student and admins.
func (s *DocumentService) Delete(ctx context.Context, actor domain.Actor, applicationID, documentID uint) error {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return ErrApplicationNotFound
	}

	if actor.Role != domain.RoleAdmin && !(actor.Role == domain.RoleStudent && actor.UserID == app.UserID) {
		return ErrNotDocumentOwner
	}

	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil || doc.ApplicationID != app.ID {
		return ErrDocumentNotFound
	}

	return s.documentRepo.Delete(ctx, doc.ID)
}

// VerifyDocumentInput represents verification input
type VerifyDocumentInput struct {
	IsVerified bool
	Remarks    string
}

// Verify sets the verification sub-state. Admins always; program admins
// only for their own program. The verifier id and timestamp are stamped
// together with the flag.
func (s *DocumentService) Verify(ctx context.Context, actor domain.Actor, applicationID, documentID uint, input *VerifyDocumentInput) (*models.ApplicationDocument, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, ErrApplicationNotFound
	}
	if !actor.Can(domain.ActionVerify, domain.Resource{OwnerID: app.UserID, ProgramID: app.ProgramID}) {
		return nil, ErrVerifyNotPermitted
	}

	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil || doc.ApplicationID != app.ID {
		return nil, ErrDocumentNotFound
	}

	if input.IsVerified {
		now := time.Now()
		doc.IsVerified = true
		doc.VerifiedBy = &actor.UserID
		doc.VerifiedAt = &now
		doc.VerificationRemarks = input.Remarks
	} else {
		doc.ResetVerification()
		doc.VerificationRemarks = input.Remarks
	}

	if err := s.documentRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	return s.documentRepo.GetByID(ctx, doc.ID)
}

// ============================================================
// Verification report
// ============================================================

// MissingDocument is one required certificate type without a submission
type MissingDocument struct {
	RequirementID       uint   `json:"requirement_id"`
	CertificateTypeID   uint   `json:"certificate_type_id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	SpecialInstructions string `json:"special_instructions"`
}

// VerificationReport is the completeness/verification summary of one
// application against its program's required certificate types.
type VerificationReport struct {
	ApplicationID          uint                          `json:"application_id"`
	TotalRequired          int                           `json:"total_required"`
	TotalSubmitted         int                           `json:"total_submitted"`
	TotalVerified          int                           `json:"total_verified"`
	CompletionPercentage   int                           `json:"completion_percentage"`
	VerificationPercentage int                           `json:"verification_percentage"`
	MissingDocuments       []MissingDocument             `json:"missing_documents"`
	VerifiedDocuments      []*models.ApplicationDocument `json:"verified_documents"`
	UnverifiedDocuments    []*models.ApplicationDocument `json:"unverified_documents"`
}

// GetVerificationStatus computes the verification report. Read-only: the
// denominator is the program's required requirement set, the numerators the
// application's submitted and verified documents.
func (s *DocumentService) GetVerificationStatus(ctx context.Context, actor domain.Actor, applicationID uint) (*VerificationReport, error) {
	app, err := s.loadAuthorized(ctx, actor, applicationID, domain.ActionView)
	if err != nil {
		return nil, err
	}

	required, err := s.requirementRepo.ListByProgram(ctx, app.ProgramID, true)
	if err != nil {
		return nil, err
	}

	docs, err := s.documentRepo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	submittedByType := make(map[uint]*models.ApplicationDocument, len(docs))
	for _, doc := range docs {
		submittedByType[doc.CertificateTypeID] = doc
	}

	report := &VerificationReport{
		ApplicationID:       applicationID,
		TotalRequired:       len(required),
		TotalSubmitted:      len(docs),
		MissingDocuments:    []MissingDocument{},
		VerifiedDocuments:   []*models.ApplicationDocument{},
		UnverifiedDocuments: []*models.ApplicationDocument{},
	}

	for _, req := range required {
		if _, ok := submittedByType[req.CertificateTypeID]; ok {
			continue
		}
		missing := MissingDocument{
			RequirementID:       req.ID,
			CertificateTypeID:   req.CertificateTypeID,
			SpecialInstructions: req.SpecialInstructions,
		}
		if req.CertificateType != nil {
			missing.Name = req.CertificateType.Name
			missing.Description = req.CertificateType.Description
		}
		report.MissingDocuments = append(report.MissingDocuments, missing)
	}

	for _, doc := range docs {
		if doc.IsVerified {
			report.VerifiedDocuments = append(report.VerifiedDocuments, doc)
		} else {
			report.UnverifiedDocuments = append(report.UnverifiedDocuments, doc)
		}
	}
	report.TotalVerified = len(report.VerifiedDocuments)

	report.CompletionPercentage = percent(report.TotalSubmitted, report.TotalRequired)
	report.VerificationPercentage = percent(report.TotalVerified, report.TotalSubmitted)

	return report, nil
}

// percent rounds 100*num/den to the nearest integer; 0 when den is 0
func percent(num, den int) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(float64(num) / float64(den) * 100))
}

// GetAvailableTypes lists the active requirements a document can be
// attached against, regardless of whether they are required. This is the
// display set, not the completeness denominator.
func (s *DocumentService) GetAvailableTypes(ctx context.Context, actor domain.Actor, applicationID uint) ([]*models.ProgramCertificateRequirement, error) {
	app, err := s.loadAuthorized(ctx, actor, applicationID, domain.ActionView)
	if err != nil {
		return nil, err
	}
	return s.requirementRepo.ListByProgram(ctx, app.ProgramID, false)
}
