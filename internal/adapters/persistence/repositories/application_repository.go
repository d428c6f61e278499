package repositories

import (
	"context"
	"fmt"
	"time"

	"admitdesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// applicationRepository is the GORM-backed ApplicationRepository
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Preload("Program").
		Preload("Reviewer").
		First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// sortColumns whitelists sortable fields; anything else falls back to created_at
var sortColumns = map[string]string{
	"created_at":         "created_at",
	"submitted_at":       "submitted_at",
	"application_number": "application_number",
	"status":             "status",
	"academic_year":      "academic_year",
}

func (r *applicationRepository) List(ctx context.Context, filter *ApplicationFilter) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Application{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ProgramID != nil {
		q = q.Where("program_id = ?", *filter.ProgramID)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.AcademicYear != "" {
		q = q.Where("academic_year = ?", filter.AcademicYear)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.SortField]
	if !ok {
		column = "created_at"
	}
	order := "DESC"
	if filter.SortOrder == "asc" {
		order = "ASC"
	}

	err := q.
		Preload("Applicant").
		Preload("Program").
		Order(fmt.Sprintf("%s %s", column, order)).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&apps).Error

	return apps, total, err
}

func (r *applicationRepository) Update(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

// NextSequence atomically increments and returns the per-year counter used
// for application numbers. The increment runs as a single UPDATE inside a
// transaction, so concurrent creations never observe the same value. The
// first allocation of a year can lose the INSERT race to a concurrent
// creator; the duplicate-key failure means the row exists now, so the
// increment path is retried once.
func (r *applicationRepository) NextSequence(ctx context.Context, year int) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bumped, err := bumpSequence(tx, year)
		if err != nil {
			return err
		}

		if !bumped {
			seq := &models.ApplicationSequence{Year: year, LastValue: 1}
			createErr := tx.Create(seq).Error
			if createErr == nil {
				value = 1
				return nil
			}
			bumped, err = bumpSequence(tx, year)
			if err != nil {
				return err
			}
			if !bumped {
				return createErr
			}
		}

		var seq models.ApplicationSequence
		if err := tx.Where("year = ?", year).First(&seq).Error; err != nil {
			return err
		}
		value = seq.LastValue
		return nil
	})
	return value, err
}

func bumpSequence(tx *gorm.DB, year int) (bool, error) {
	res := tx.Model(&models.ApplicationSequence{}).
		Where("year = ?", year).
		UpdateColumn("last_value", gorm.Expr("last_value + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *applicationRepository) CountByStatus(ctx context.Context, academicYear string, programID *uint) ([]StatusCount, int64, error) {
	var counts []StatusCount
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Application{}).Where("academic_year = ?", academicYear)
	if programID != nil {
		q = q.Where("program_id = ?", *programID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error

	return counts, total, err
}

// ListStaleSubmitted returns applications still in submitted state whose
// submission happened more than olderThanDays ago.
func (r *applicationRepository) ListStaleSubmitted(ctx context.Context, olderThanDays int) ([]*models.Application, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)

	var apps []*models.Application
	err := r.db.WithContext(ctx).
		Preload("Program").
		Where("status = ? AND submitted_at < ?", models.StatusSubmitted, cutoff).
		Find(&apps).Error
	return apps, err
}

// statusHistoryRepository is the GORM-backed StatusHistoryRepository
type statusHistoryRepository struct {
	db *gorm.DB
}

// NewStatusHistoryRepository creates a new status history repository
func NewStatusHistoryRepository(db *gorm.DB) StatusHistoryRepository {
	return &statusHistoryRepository{db: db}
}

func (r *statusHistoryRepository) Create(ctx context.Context, entry *models.ApplicationStatusHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *statusHistoryRepository) ListByApplication(ctx context.Context, applicationID uint) ([]*models.ApplicationStatusHistory, error) {
	var entries []*models.ApplicationStatusHistory
	err := r.db.WithContext(ctx).
		Preload("Changer").
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
