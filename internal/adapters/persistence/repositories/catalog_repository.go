package repositories

import (
	"context"

	"admitdesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ============================================================
// Programs
// ============================================================

// programRepository is the GORM-backed ProgramRepository
type programRepository struct {
	db *gorm.DB
}

// NewProgramRepository creates a new program repository
func NewProgramRepository(db *gorm.DB) ProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) Create(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *programRepository) GetByID(ctx context.Context, id uint) (*models.Program, error) {
	var program models.Program
	if err := r.db.WithContext(ctx).First(&program, id).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepository) GetByCode(ctx context.Context, code string) (*models.Program, error) {
	var program models.Program
	if err := r.db.WithContext(ctx).Where("program_code = ?", code).First(&program).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepository) List(ctx context.Context, includeInactive bool) ([]*models.Program, error) {
	var programs []*models.Program
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("program_code ASC").Find(&programs).Error
	return programs, err
}

func (r *programRepository) Update(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Save(program).Error
}

func (r *programRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Program{}, id).Error
}

func (r *programRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Program{}).Where("program_code = ?", code).Count(&count).Error
	return count > 0, err
}

// ============================================================
// Certificate Types
// ============================================================

// certificateTypeRepository is the GORM-backed CertificateTypeRepository
type certificateTypeRepository struct {
	db *gorm.DB
}

// NewCertificateTypeRepository creates a new certificate-type repository
func NewCertificateTypeRepository(db *gorm.DB) CertificateTypeRepository {
	return &certificateTypeRepository{db: db}
}

func (r *certificateTypeRepository) Create(ctx context.Context, ct *models.CertificateType) error {
	return r.db.WithContext(ctx).Create(ct).Error
}

func (r *certificateTypeRepository) GetByID(ctx context.Context, id uint) (*models.CertificateType, error) {
	var ct models.CertificateType
	if err := r.db.WithContext(ctx).First(&ct, id).Error; err != nil {
		return nil, err
	}
	return &ct, nil
}

func (r *certificateTypeRepository) List(ctx context.Context, includeInactive bool) ([]*models.CertificateType, error) {
	var types []*models.CertificateType
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("display_order ASC, name ASC").Find(&types).Error
	return types, err
}

// ListNotLinked returns active certificate types without an active
// requirement row for the given program.
func (r *certificateTypeRepository) ListNotLinked(ctx context.Context, programID uint) ([]*models.CertificateType, error) {
	var types []*models.CertificateType
	sub := r.db.
		Model(&models.ProgramCertificateRequirement{}).
		Select("certificate_type_id").
		Where("program_id = ? AND is_active = ? AND deleted_at IS NULL", programID, true)

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("id NOT IN (?)", sub).
		Order("display_order ASC, name ASC").
		Find(&types).Error
	return types, err
}

func (r *certificateTypeRepository) Update(ctx context.Context, ct *models.CertificateType) error {
	return r.db.WithContext(ctx).Save(ct).Error
}

func (r *certificateTypeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.CertificateType{}, id).Error
}

func (r *certificateTypeRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CertificateType{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// ============================================================
// Program Certificate Requirements
// ============================================================

// requirementRepository is the GORM-backed RequirementRepository
type requirementRepository struct {
	db *gorm.DB
}

// NewRequirementRepository creates a new requirement repository
func NewRequirementRepository(db *gorm.DB) RequirementRepository {
	return &requirementRepository{db: db}
}

func (r *requirementRepository) Create(ctx context.Context, req *models.ProgramCertificateRequirement) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requirementRepository) GetByID(ctx context.Context, id uint) (*models.ProgramCertificateRequirement, error) {
	var req models.ProgramCertificateRequirement
	err := r.db.WithContext(ctx).
		Preload("CertificateType").
		Preload("Program").
		First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requirementRepository) GetActive(ctx context.Context, programID, certificateTypeID uint) (*models.ProgramCertificateRequirement, error) {
	var req models.ProgramCertificateRequirement
	err := r.db.WithContext(ctx).
		Preload("CertificateType").
		Where("program_id = ? AND certificate_type_id = ? AND is_active = ?", programID, certificateTypeID, true).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requirementRepository) ListByProgram(ctx context.Context, programID uint, requiredOnly bool) ([]*models.ProgramCertificateRequirement, error) {
	var reqs []*models.ProgramCertificateRequirement
	q := r.db.WithContext(ctx).
		Preload("CertificateType").
		Where("program_id = ? AND is_active = ?", programID, true)
	if requiredOnly {
		q = q.Where("is_required = ?", true)
	}
	err := q.Order("display_order ASC").Find(&reqs).Error
	return reqs, err
}

func (r *requirementRepository) Update(ctx context.Context, req *models.ProgramCertificateRequirement) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *requirementRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ProgramCertificateRequirement{}, id).Error
}

func (r *requirementRepository) Exists(ctx context.Context, programID, certificateTypeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProgramCertificateRequirement{}).
		Where("program_id = ? AND certificate_type_id = ? AND is_active = ?", programID, certificateTypeID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *requirementRepository) ExistsByCertificateType(ctx context.Context, certificateTypeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProgramCertificateRequirement{}).
		Where("certificate_type_id = ? AND is_active = ?", certificateTypeID, true).
		Count(&count).Error
	return count > 0, err
}
