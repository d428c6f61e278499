package services

import (
	"context"
	"fmt"
	"log"

	"admitdesk/internal/adapters/persistence/models"
	"admitdesk/internal/adapters/persistence/repositories"
	"admitdesk/internal/core/domain"
)

// Requirement service errors
var (
	ErrRequirementNotFound = fmt.Errorf("%w: requirement", domain.ErrNotFound)
	ErrCertTypeNotFound    = fmt.Errorf("%w: certificate type", domain.ErrNotFound)
	ErrRequirementExists   = fmt.Errorf("%w: certificate type is already linked to this program", domain.ErrConflict)
)

// RequirementService manages the program requirement catalog: which
// certificate types a program demands and in what order.
type RequirementService struct {
	requirementRepo repositories.RequirementRepository
	programRepo     repositories.ProgramRepository
	certTypeRepo    repositories.CertificateTypeRepository
}

// NewRequirementService creates a new requirement service
func NewRequirementService(
	requirementRepo repositories.RequirementRepository,
	programRepo repositories.ProgramRepository,
	certTypeRepo repositories.CertificateTypeRepository,
) *RequirementService {
	return &RequirementService{
		requirementRepo: requirementRepo,
		programRepo:     programRepo,
		certTypeRepo:    certTypeRepo,
	}
}

// ListByProgram lists the active requirements of a program in display order
func (s *RequirementService) ListByProgram(ctx context.Context, programID uint) ([]*models.ProgramCertificateRequirement, error) {
	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		return nil, ErrProgramNotFound
	}
	return s.requirementRepo.ListByProgram(ctx, programID, false)
}

// ListAvailable lists active certificate types not yet linked to the program
func (s *RequirementService) ListAvailable(ctx context.Context, programID uint) ([]*models.CertificateType, error) {
	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		return nil, ErrProgramNotFound
	}
	return s.certTypeRepo.ListNotLinked(ctx, programID)
}

// CreateRequirementInput represents create input. IsRequired defaults to
// the certificate type's own flag when not supplied.
type CreateRequirementInput struct {
	CertificateTypeID   uint
	IsRequired          *bool
	SpecialInstructions string
	DisplayOrder        int
}

// Create links a certificate type to a program. At most one active link
// may exist per pair.
func (s *RequirementService) Create(ctx context.Context, actor domain.Actor, programID uint, input *CreateRequirementInput) (*models.ProgramCertificateRequirement, error) {
	if !actor.ManagesProgram(programID) {
		return nil, ErrStaffOnly
	}
	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		return nil, ErrProgramNotFound
	}

	certType, err := s.certTypeRepo.GetByID(ctx, input.CertificateTypeID)
	if err != nil {
		return nil, ErrCertTypeNotFound
	}

	exists, err := s.requirementRepo.Exists(ctx, programID, input.CertificateTypeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrRequirementExists
	}

	isRequired := certType.IsRequired
	if input.IsRequired != nil {
		isRequired = *input.IsRequired
	}

	req := &models.ProgramCertificateRequirement{
		ProgramID:           programID,
		CertificateTypeID:   input.CertificateTypeID,
		IsRequired:          isRequired,
		SpecialInstructions: input.SpecialInstructions,
		DisplayOrder:        input.DisplayOrder,
		IsActive:            true,
	}
	if err := s.requirementRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	return s.requirementRepo.GetByID(ctx, req.ID)
}

// UpdateRequirementInput represents update input
type UpdateRequirementInput struct {
	IsRequired          *bool
	SpecialInstructions *string
	DisplayOrder        *int
	IsActive            *bool
}

// Update edits one requirement of the program
func (s *RequirementService) Update(ctx context.Context, actor domain.Actor, programID, requirementID uint, input *UpdateRequirementInput) (*models.ProgramCertificateRequirement, error) {
	if !actor.ManagesProgram(programID) {
		return nil, ErrStaffOnly
	}

	req, err := s.requirementRepo.GetByID(ctx, requirementID)
	if err != nil || req.ProgramID != programID {
		return nil, ErrRequirementNotFound
	}

	if input.IsRequired != nil {
		req.IsRequired = *input.IsRequired
	}
	if input.SpecialInstructions != nil {
		req.SpecialInstructions = *input.SpecialInstructions
	}
	if input.DisplayOrder != nil {
		req.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		req.IsActive = *input.IsActive
	}

	if err := s.requirementRepo.Update(ctx, req); err != nil {
		return nil, err
	}
	return s.requirementRepo.GetByID(ctx, req.ID)
}

// Delete removes one requirement of the program
func (s *RequirementService) Delete(ctx context.Context, actor domain.Actor, programID, requirementID uint) error {
	if !actor.ManagesProgram(programID) {
		return ErrStaffOnly
	}

	req, err := s.requirementRepo.GetByID(ctx, requirementID)
	if err != nil || req.ProgramID != programID {
		return ErrRequirementNotFound
	}

	return s.requirementRepo.Delete(ctx, req.ID)
}

// ReorderItem is one (requirement, position) pair of a reorder request
type ReorderItem struct {
	RequirementID uint `json:"requirement_id"`
	DisplayOrder  int  `json:"display_order"`
}

// Reorder applies display-order updates item by item. Items that fail are
// skipped, earlier successes are kept, and the resulting ordered set is
// returned either way.
func (s *RequirementService) Reorder(ctx context.Context, actor domain.Actor, programID uint, items []ReorderItem) ([]*models.ProgramCertificateRequirement, error) {
	if !actor.ManagesProgram(programID) {
		return nil, ErrStaffOnly
	}
	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		return nil, ErrProgramNotFound
	}

	for _, item := range items {
		req, err := s.requirementRepo.GetByID(ctx, item.RequirementID)
		if err != nil || req.ProgramID != programID {
			log.Printf("⚠️ Reorder skipped requirement %d: not part of program %d", item.RequirementID, programID)
			continue
		}
		req.DisplayOrder = item.DisplayOrder
		if err := s.requirementRepo.Update(ctx, req); err != nil {
			log.Printf("⚠️ Reorder failed for requirement %d: %v", item.RequirementID, err)
		}
	}

	return s.requirementRepo.ListByProgram(ctx, programID, false)
}
