package config

import (
	"log"

	"admitdesk/internal/adapters/persistence/models"
	"admitdesk/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedCertificateTypes(); err != nil {
		log.Printf("⚠️ Certificate type seeder skipped: %v", err)
	}
	if err := s.seedPrograms(); err != nil {
		log.Printf("⚠️ Program seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		FullName: "System Administrator",
		Email:    "admin@admitdesk.local",
		Password: hashedPassword,
		Role:     "admin",
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}

// seedCertificateTypes seeds the baseline certificate catalog
func (s *Seeder) seedCertificateTypes() error {
	var count int64
	s.db.Model(&models.CertificateType{}).Count(&count)
	if count > 0 {
		return nil
	}

	certTypes := []models.CertificateType{
		{
			Name:             "Transfer Certificate",
			Description:      "Transfer certificate from the previous institution",
			FileTypesAllowed: "pdf,jpg,jpeg,png",
			MaxFileSizeMb:    5,
			IsRequired:       true,
			DisplayOrder:     1,
			IsActive:         true,
		},
		{
			Name:             "Mark Sheet",
			Description:      "Final mark sheet of the qualifying examination",
			FileTypesAllowed: "pdf,jpg,jpeg,png",
			MaxFileSizeMb:    5,
			IsRequired:       true,
			DisplayOrder:     2,
			IsActive:         true,
		},
		{
			Name:             "Identity Proof",
			Description:      "Government-issued photo identity document",
			FileTypesAllowed: "pdf,jpg,jpeg,png",
			MaxFileSizeMb:    5,
			IsRequired:       true,
			DisplayOrder:     3,
			IsActive:         true,
		},
		{
			Name:             "Passport Photo",
			Description:      "Recent passport-size photograph",
			FileTypesAllowed: "jpg,jpeg,png",
			MaxFileSizeMb:    2,
			IsRequired:       true,
			DisplayOrder:     4,
			IsActive:         true,
		},
		{
			Name:             "Caste Certificate",
			Description:      "Category certificate, when applicable",
			FileTypesAllowed: "pdf,jpg,jpeg,png",
			MaxFileSizeMb:    5,
			IsRequired:       false,
			DisplayOrder:     5,
			IsActive:         true,
		},
	}

	if err := s.db.Create(&certTypes).Error; err != nil {
		return err
	}

	log.Printf("✅ Certificate types seeded: %d", len(certTypes))
	return nil
}

// seedPrograms seeds a demo program with its requirements
func (s *Seeder) seedPrograms() error {
	var count int64
	s.db.Model(&models.Program{}).Count(&count)
	if count > 0 {
		return nil
	}

	program := &models.Program{
		ProgramCode:   "BSC-CS",
		Name:          "B.Sc. Computer Science",
		Description:   "Three-year undergraduate program in computer science",
		AcademicLevel: "undergraduate",
		DurationYears: 3,
		TotalSeats:    60,
		IsActive:      true,
	}
	if err := s.db.Create(program).Error; err != nil {
		return err
	}

	// Link every required certificate type to the demo program
	var certTypes []models.CertificateType
	if err := s.db.Where("is_active = ?", true).Order("display_order ASC").Find(&certTypes).Error; err != nil {
		return err
	}

	for i, ct := range certTypes {
		req := models.ProgramCertificateRequirement{
			ProgramID:         program.ID,
			CertificateTypeID: ct.ID,
			IsRequired:        ct.IsRequired,
			DisplayOrder:      i + 1,
			IsActive:          true,
		}
		if err := s.db.Create(&req).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Program seeded: %s with %d requirements", program.ProgramCode, len(certTypes))
	return nil
}
