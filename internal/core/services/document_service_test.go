package services

import (
	"context"
	"errors"
	"testing"

	"admitdesk/internal/adapters/persistence/models"
	"admitdesk/internal/core/domain"
)

type documentEnv struct {
	svc      *DocumentService
	appRepo  *fakeApplicationRepo
	docRepo  *fakeDocumentRepo
	reqRepo  *fakeRequirementRepo
	fileRepo *fakeFileRepo
	app      *models.Application
}

func newDocumentEnv(t *testing.T) *documentEnv {
	t.Helper()

	markSheet := &models.CertificateType{ID: 1, Name: "Mark Sheet", FileTypesAllowed: "pdf,jpg,jpeg,png", MaxFileSizeMb: 5, IsActive: true}
	photo := &models.CertificateType{ID: 2, Name: "Passport Photo", FileTypesAllowed: "jpg,jpeg", MaxFileSizeMb: 2, IsActive: true}

	reqRepo := newFakeRequirementRepo(
		&models.ProgramCertificateRequirement{ID: 1, ProgramID: 1, CertificateTypeID: 1, IsRequired: true, IsActive: true, CertificateType: markSheet},
		&models.ProgramCertificateRequirement{ID: 2, ProgramID: 1, CertificateTypeID: 2, IsRequired: true, IsActive: true, CertificateType: photo},
	)

	fileRepo := newFakeFileRepo(
		&models.FileUpload{ID: 1, UploadedBy: 10, OriginalName: "marksheet.pdf", SizeBytes: 1 << 20},
		&models.FileUpload{ID: 2, UploadedBy: 10, OriginalName: "huge.pdf", SizeBytes: 10 << 20},
		&models.FileUpload{ID: 3, UploadedBy: 10, OriginalName: "notes.txt", SizeBytes: 1 << 10},
		&models.FileUpload{ID: 4, UploadedBy: 10, OriginalName: "photo.jpg", SizeBytes: 1 << 20},
	)

	appRepo := newFakeApplicationRepo()
	app := &models.Application{UserID: 10, ProgramID: 1, Status: models.StatusDraft, AcademicYear: "2026-27"}
	if err := appRepo.Create(context.Background(), app); err != nil {
		t.Fatalf("seed application: %v", err)
	}

	docRepo := newFakeDocumentRepo()
	svc := NewDocumentService(appRepo, docRepo, reqRepo, fileRepo)
	return &documentEnv{svc: svc, appRepo: appRepo, docRepo: docRepo, reqRepo: reqRepo, fileRepo: fileRepo, app: app}
}

func TestAttachDocument(t *testing.T) {
	env := newDocumentEnv(t)

	doc, err := env.svc.Attach(context.Background(), student(10), env.app.ID, &AttachDocumentInput{
		CertificateTypeID: 1,
		FileUploadID:      1,
	})
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if doc.DocumentName != "marksheet.pdf" {
		t.Fatalf("expected name to default to the upload's original name, got %q", doc.DocumentName)
	}
	if doc.IsVerified {
		t.Fatal("a fresh document must be unverified")
	}
}

func TestAttachRejectsUnrequiredType(t *testing.T) {
	env := newDocumentEnv(t)

	_, err := env.svc.Attach(context.Background(), student(10), env.app.ID, &AttachDocumentInput{
		CertificateTypeID: 99,
		FileUploadID:      1,
	})
	if !errors.Is(err, ErrNotRequired) {
		t.Fatalf("expected ErrNotRequired, got %v", err)
	}
}

func TestAttachRejectsMissingFile(t *testing.T) {
	env := newDocumentEnv(t)

	_, err := env.svc.Attach(context.Background(), student(10), env.app.ID, &AttachDocumentInput{
		CertificateTypeID: 1,
		FileUploadID:      404,
	})
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestAttachEnforcesFilePolicy(t *testing.T) {
	env := newDocumentEnv(t)

	// Over the 5 MB cap
	_, err := env.svc.Attach(context.Background(), student(10), env.app.ID, &AttachDocumentInput{
		CertificateTypeID: 1,
		FileUploadID:      2,
	})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument for oversized file, got %v", err)
	}

	// Extension not in the whitelist
	_, err = env.svc.Attach(context.Background(), student(10), env.app.ID, &AttachDocumentInput{
		CertificateTypeID: 1,
		FileUploadID:      3,
	})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument for .txt file, got %v", err)
	}
}

func TestAttachRejectsDuplicateType(t *testing.T) {
	env := newDocumentEnv(t)

	if _, err := env.svc.Attach(context.Background(), student(10), env.app.ID, &AttachDocumentInput{
		CertificateTypeID: 1,
		FileUploadID:      1,
	}); err != nil {
		t.Fatalf("first attach failed: %v", err)
	}

	_, err := env.svc.Attach(context.Background(), student(10), env.app.ID, &AttachDocumentInput{
		CertificateTypeID: 1,
		FileUploadID:      1,
	})
	if !errors.Is(err, ErrDocumentExists) {
		t.Fatalf("expected ErrDocumentExists, got %v", err)
	}
}

func TestVerifyPermissions(t *testing.T) {
	env := newDocumentEnv(t)
	doc, err := env.svc.Attach(context.Background(), student(10), env.app.ID, &AttachDocumentInput{
		CertificateTypeID: 1,
		FileUploadID:      1,
	})
	if err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	// Students may not verify, not even the owner
	_, err = env.svc.Verify(context.Background(), student(10), env.app.ID, doc.ID, &VerifyDocumentInput{IsVerified: true})
	if !errors.Is(err, ErrVerifyNotPermitted) {
		t.Fatalf("expected ErrVerifyNotPermitted for student, got %v", err)
	}

	// Program admins of another program may not either
	_, err = env.svc.Verify(context.Background(), programAdmin(5, 2), env.app.ID, doc.ID, &VerifyDocumentInput{IsVerified: true})
	if !errors.Is(err, ErrVerifyNotPermitted) {
		t.Fatalf("expected ErrVerifyNotPermitted for foreign program admin, got %v", err)
	}
}

func TestVerifyStampsAndResets(t *testing.T) {
	env := newDocumentEnv(t)
	doc, err := env.svc.Attach(context.Background(), student(10), env.app.ID, &AttachDocumentInput{
		CertificateTypeID: 1,
		FileUploadID:      1,
	})
	if err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	verifier := programAdmin(5, 1)
	verified, err := env.svc.Verify(context.Background(), verifier, env.app.ID, doc.ID, &VerifyDocumentInput{
		IsVerified: true,
		Remarks:    "Legible and stamped",
	})
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !verified.IsVerified {
		t.Fatal("expected IsVerified true")
	}
	if verified.VerifiedBy == nil || *verified.VerifiedBy != verifier.UserID {
		t.Fatalf("expected VerifiedBy %d, got %v", verifier.UserID, verified.VerifiedBy)
	}
	if verified.VerifiedAt == nil {
		t.Fatal("expected VerifiedAt to be stamped")
	}
	if verified.VerificationRemarks != "Legible and stamped" {
		t.Fatalf("unexpected remarks %q", verified.VerificationRemarks)
	}

	unverified, err := env.svc.Verify(context.Background(), verifier, env.app.ID, doc.ID, &VerifyDocumentInput{
		IsVerified: false,
		Remarks:    "Stamp missing on page 2",
	})
	if err != nil {
		t.Fatalf("un-verify failed: %v", err)
	}
	if unverified.IsVerified || unverified.VerifiedBy != nil || unverified.VerifiedAt != nil {
		t.Fatal("un-verify must clear the verification stamp")
	}
	if unverified.VerificationRemarks != "Stamp missing on page 2" {
		t.Fatalf("unexpected remarks %q", unverified.VerificationRemarks)
	}
}

func TestFileChangeResetsVerification(t *testing.T) {
	env := newDocumentEnv(t)
	doc, err := env.svc.Attach(context.Background(), student(10), env.app.ID, &AttachDocumentInput{
		CertificateTypeID: 1,
		FileUploadID:      1,
	})
	if err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if _, err := env.svc.Verify(context.Background(), programAdmin(5, 1), env.app.ID, doc.ID, &VerifyDocumentInput{IsVerified: true}); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	updated, err := env.svc.Update(context.Background(), student(10), env.app.ID, doc.ID, &UpdateDocumentInput{
		FileUploadID: uintPtr(4),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.IsVerified || updated.VerifiedBy != nil || updated.VerifiedAt != nil {
		t.Fatal("replacing the file must reset verification")
	}
	if updated.FileUploadID != 4 {
		t.Fatalf("expected file upload 4, got %d", updated.FileUploadID)
	}
}

func TestRenameKeepsVerification(t *testing.T) {
	env := newDocumentEnv(t)
	doc, err := env.svc.Attach(context.Background(), student(10), env.app.ID, &AttachDocumentInput{
		CertificateTypeID: 1,
		FileUploadID:      1,
	})
	if err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if _, err := env.svc.Verify(context.Background(), programAdmin(5, 1), env.app.ID, doc.ID, &VerifyDocumentInput{IsVerified: true}); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	updated, err := env.svc.Update(context.Background(), student(10), env.app.ID, doc.ID, &UpdateDocumentInput{
		DocumentName: strPtr("Semester 6 mark sheet"),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.IsVerified {
		t.Fatal("a metadata-only edit must not reset verification")
	}
}

func TestDeleteDocumentPermissions(t *testing.T) {
	env := newDocumentEnv(t)
	doc, err := env.svc.Attach(context.Background(), student(10), env.app.ID, &AttachDocumentInput{
		CertificateTypeID: 1,
		FileUploadID:      1,
	})
	if err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	if err := env.svc.Delete(context.Background(), programAdmin(5, 1), env.app.ID, doc.ID); !errors.Is(err, ErrNotDocumentOwner) {
		t.Fatalf("expected ErrNotDocumentOwner for program admin, got %v", err)
	}
	if err := env.svc.Delete(context.Background(), student(99), env.app.ID, doc.ID); !errors.Is(err, ErrNotDocumentOwner) {
		t.Fatalf("expected ErrNotDocumentOwner for another student, got %v", err)
	}
	if err := env.svc.Delete(context.Background(), student(10), env.app.ID, doc.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := env.docRepo.GetByID(context.Background(), doc.ID); err == nil {
		t.Fatal("document must be gone after delete")
	}
}

func TestVerificationReportMath(t *testing.T) {
	env := newDocumentEnv(t)

	// Five required types, three submissions, two verified
	extra := []*models.CertificateType{
		{ID: 3, Name: "Transfer Certificate", IsActive: true},
		{ID: 4, Name: "Identity Proof", IsActive: true},
		{ID: 5, Name: "Caste Certificate", IsActive: true},
	}
	for i, ct := range extra {
		req := &models.ProgramCertificateRequirement{
			ProgramID:         1,
			CertificateTypeID: ct.ID,
			IsRequired:        true,
			IsActive:          true,
			CertificateType:   ct,
		}
		if err := env.reqRepo.Create(context.Background(), req); err != nil {
			t.Fatalf("seed requirement %d: %v", i, err)
		}
	}

	var docs []*models.ApplicationDocument
	for _, typeID := range []uint{1, 3, 4} {
		doc, err := env.svc.Attach(context.Background(), student(10), env.app.ID, &AttachDocumentInput{
			CertificateTypeID: typeID,
			FileUploadID:      1,
		})
		if err != nil {
			t.Fatalf("attach type %d: %v", typeID, err)
		}
		docs = append(docs, doc)
	}
	for _, doc := range docs[:2] {
		if _, err := env.svc.Verify(context.Background(), programAdmin(5, 1), env.app.ID, doc.ID, &VerifyDocumentInput{IsVerified: true}); err != nil {
			t.Fatalf("verify: %v", err)
		}
	}

	report, err := env.svc.GetVerificationStatus(context.Background(), student(10), env.app.ID)
	if err != nil {
		t.Fatalf("GetVerificationStatus failed: %v", err)
	}
	if report.TotalRequired != 5 || report.TotalSubmitted != 3 || report.TotalVerified != 2 {
		t.Fatalf("unexpected totals: required=%d submitted=%d verified=%d",
			report.TotalRequired, report.TotalSubmitted, report.TotalVerified)
	}
	if report.CompletionPercentage != 60 {
		t.Fatalf("expected completion 60, got %d", report.CompletionPercentage)
	}
	if report.VerificationPercentage != 67 {
		t.Fatalf("expected verification 67, got %d", report.VerificationPercentage)
	}
	if len(report.MissingDocuments) != 2 {
		t.Fatalf("expected 2 missing documents, got %d", len(report.MissingDocuments))
	}
	if len(report.VerifiedDocuments) != 2 || len(report.UnverifiedDocuments) != 1 {
		t.Fatalf("unexpected partition: %d verified, %d unverified",
			len(report.VerifiedDocuments), len(report.UnverifiedDocuments))
	}
}

func TestVerificationReportEmpty(t *testing.T) {
	reqRepo := newFakeRequirementRepo()
	fileRepo := newFakeFileRepo()
	appRepo := newFakeApplicationRepo()
	app := &models.Application{UserID: 10, ProgramID: 1, Status: models.StatusDraft}
	if err := appRepo.Create(context.Background(), app); err != nil {
		t.Fatalf("seed application: %v", err)
	}
	svc := NewDocumentService(appRepo, newFakeDocumentRepo(), reqRepo, fileRepo)

	report, err := svc.GetVerificationStatus(context.Background(), student(10), app.ID)
	if err != nil {
		t.Fatalf("GetVerificationStatus failed: %v", err)
	}
	if report.CompletionPercentage != 0 || report.VerificationPercentage != 0 {
		t.Fatalf("empty report must show 0 percent, got %d/%d",
			report.CompletionPercentage, report.VerificationPercentage)
	}
}

func TestPercentRounding(t *testing.T) {
	cases := []struct {
		num, den, want int
	}{
		{0, 0, 0},
		{1, 0, 0},
		{3, 5, 60},
		{2, 3, 67},
		{1, 3, 33},
		{5, 5, 100},
	}
	for _, c := range cases {
		if got := percent(c.num, c.den); got != c.want {
			t.Fatalf("percent(%d, %d) = %d, want %d", c.num, c.den, got, c.want)
		}
	}
}
