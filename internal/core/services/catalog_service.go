package services

import (
	"context"
	"fmt"

	"admitdesk/internal/adapters/persistence/models"
	"admitdesk/internal/adapters/persistence/repositories"
	"admitdesk/internal/core/domain"
)

// Catalog service errors
var (
	ErrProgramCodeExists  = fmt.Errorf("%w: program code already exists", domain.ErrConflict)
	ErrCertTypeNameExists = fmt.Errorf("%w: certificate type name already exists", domain.ErrConflict)
	ErrAdminOnly          = fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	ErrCertTypeInUse      = fmt.Errorf("%w: certificate type is linked to a program", domain.ErrConflict)
)

// CatalogService manages the master data: programs and certificate types.
// Reads are public, writes are admin only.
type CatalogService struct {
	programRepo     repositories.ProgramRepository
	certTypeRepo    repositories.CertificateTypeRepository
	requirementRepo repositories.RequirementRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	programRepo repositories.ProgramRepository,
	certTypeRepo repositories.CertificateTypeRepository,
	requirementRepo repositories.RequirementRepository,
) *CatalogService {
	return &CatalogService{
		programRepo:     programRepo,
		certTypeRepo:    certTypeRepo,
		requirementRepo: requirementRepo,
	}
}

// ============================================================================
// PROGRAMS
// ============================================================================

// ListPrograms lists programs. Inactive programs are hidden from the
// public listing unless includeInactive is set.
func (s *CatalogService) ListPrograms(ctx context.Context, includeInactive bool) ([]*models.Program, error) {
	return s.programRepo.List(ctx, includeInactive)
}

// GetProgram fetches one program by ID
func (s *CatalogService) GetProgram(ctx context.Context, id uint) (*models.Program, error) {
	program, err := s.programRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrProgramNotFound
	}
	return program, nil
}

// CreateProgramInput represents program create input
type CreateProgramInput struct {
	ProgramCode   string
	Name          string
	Description   string
	AcademicLevel string
	DurationYears int
	TotalSeats    int
}

// CreateProgram creates a new program. Program codes are unique.
func (s *CatalogService) CreateProgram(ctx context.Context, actor domain.Actor, input *CreateProgramInput) (*models.Program, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrAdminOnly
	}
	if input.ProgramCode == "" || input.Name == "" {
		return nil, fmt.Errorf("%w: program code and name are required", domain.ErrInvalidArgument)
	}

	exists, err := s.programRepo.ExistsByCode(ctx, input.ProgramCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrProgramCodeExists
	}

	program := &models.Program{
		ProgramCode:   input.ProgramCode,
		Name:          input.Name,
		Description:   input.Description,
		AcademicLevel: input.AcademicLevel,
		DurationYears: input.DurationYears,
		TotalSeats:    input.TotalSeats,
		IsActive:      true,
	}
	if err := s.programRepo.Create(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// UpdateProgramInput represents program update input
type UpdateProgramInput struct {
	Name          *string
	Description   *string
	AcademicLevel *string
	DurationYears *int
	TotalSeats    *int
	IsActive      *bool
}

// UpdateProgram edits a program. The program code is immutable once set.
func (s *CatalogService) UpdateProgram(ctx context.Context, actor domain.Actor, id uint, input *UpdateProgramInput) (*models.Program, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrAdminOnly
	}

	program, err := s.programRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrProgramNotFound
	}

	if input.Name != nil {
		program.Name = *input.Name
	}
	if input.Description != nil {
		program.Description = *input.Description
	}
	if input.AcademicLevel != nil {
		program.AcademicLevel = *input.AcademicLevel
	}
	if input.DurationYears != nil {
		program.DurationYears = *input.DurationYears
	}
	if input.TotalSeats != nil {
		program.TotalSeats = *input.TotalSeats
	}
	if input.IsActive != nil {
		program.IsActive = *input.IsActive
	}

	if err := s.programRepo.Update(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// DeleteProgram soft-deletes a program
func (s *CatalogService) DeleteProgram(ctx context.Context, actor domain.Actor, id uint) error {
	if actor.Role != domain.RoleAdmin {
		return ErrAdminOnly
	}
	if _, err := s.programRepo.GetByID(ctx, id); err != nil {
		return ErrProgramNotFound
	}
	return s.programRepo.Delete(ctx, id)
}

// ============================================================================
// CERTIFICATE TYPES
// ============================================================================

// ListCertificateTypes lists certificate types in display order
func (s *CatalogService) ListCertificateTypes(ctx context.Context, includeInactive bool) ([]*models.CertificateType, error) {
	return s.certTypeRepo.List(ctx, includeInactive)
}

// GetCertificateType fetches one certificate type by ID
func (s *CatalogService) GetCertificateType(ctx context.Context, id uint) (*models.CertificateType, error) {
	certType, err := s.certTypeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrCertTypeNotFound
	}
	return certType, nil
}

// CreateCertificateTypeInput represents certificate type create input
type CreateCertificateTypeInput struct {
	Name             string
	Description      string
	FileTypesAllowed string
	MaxFileSizeMb    int
	IsRequired       bool
	DisplayOrder     int
}

// CreateCertificateType creates a new certificate type. Names are unique.
func (s *CatalogService) CreateCertificateType(ctx context.Context, actor domain.Actor, input *CreateCertificateTypeInput) (*models.CertificateType, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrAdminOnly
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}

	exists, err := s.certTypeRepo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCertTypeNameExists
	}

	certType := &models.CertificateType{
		Name:             input.Name,
		Description:      input.Description,
		FileTypesAllowed: input.FileTypesAllowed,
		MaxFileSizeMb:    input.MaxFileSizeMb,
		IsRequired:       input.IsRequired,
		DisplayOrder:     input.DisplayOrder,
		IsActive:         true,
	}
	if certType.FileTypesAllowed == "" {
		certType.FileTypesAllowed = "pdf,jpg,jpeg,png"
	}
	if certType.MaxFileSizeMb <= 0 {
		certType.MaxFileSizeMb = 5
	}

	if err := s.certTypeRepo.Create(ctx, certType); err != nil {
		return nil, err
	}
	return certType, nil
}

// UpdateCertificateTypeInput represents certificate type update input
type UpdateCertificateTypeInput struct {
	Name             *string
	Description      *string
	FileTypesAllowed *string
	MaxFileSizeMb    *int
	IsRequired       *bool
	DisplayOrder     *int
	IsActive         *bool
}

// UpdateCertificateType edits a certificate type
func (s *CatalogService) UpdateCertificateType(ctx context.Context, actor domain.Actor, id uint, input *UpdateCertificateTypeInput) (*models.CertificateType, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrAdminOnly
	}

	certType, err := s.certTypeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrCertTypeNotFound
	}

	if input.Name != nil && *input.Name != certType.Name {
		exists, err := s.certTypeRepo.ExistsByName(ctx, *input.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrCertTypeNameExists
		}
		certType.Name = *input.Name
	}
	if input.Description != nil {
		certType.Description = *input.Description
	}
	if input.FileTypesAllowed != nil {
		certType.FileTypesAllowed = *input.FileTypesAllowed
	}
	if input.MaxFileSizeMb != nil {
		certType.MaxFileSizeMb = *input.MaxFileSizeMb
	}
	if input.IsRequired != nil {
		certType.IsRequired = *input.IsRequired
	}
	if input.DisplayOrder != nil {
		certType.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		certType.IsActive = *input.IsActive
	}

	if err := s.certTypeRepo.Update(ctx, certType); err != nil {
		return nil, err
	}
	return certType, nil
}

// DeleteCertificateType soft-deletes a certificate type unless a program
// still links to it.
func (s *CatalogService) DeleteCertificateType(ctx context.Context, actor domain.Actor, id uint) error {
	if actor.Role != domain.RoleAdmin {
		return ErrAdminOnly
	}
	if _, err := s.certTypeRepo.GetByID(ctx, id); err != nil {
		return ErrCertTypeNotFound
	}

	linked, err := s.requirementRepo.ExistsByCertificateType(ctx, id)
	if err != nil {
		return err
	}
	if linked {
		return ErrCertTypeInUse
	}

	return s.certTypeRepo.Delete(ctx, id)
}
