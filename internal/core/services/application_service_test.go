package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"admitdesk/internal/adapters/persistence/models"
	"admitdesk/internal/core/domain"
)

func uintPtr(v uint) *uint { return &v }
func strPtr(v string) *string { return &v }

func newLifecycleEnv() (*ApplicationService, *fakeApplicationRepo, *fakeHistoryRepo, *fakeEmitter) {
	appRepo := newFakeApplicationRepo()
	historyRepo := &fakeHistoryRepo{}
	programRepo := newFakeProgramRepo(
		&models.Program{ID: 1, ProgramCode: "BSC-CS", Name: "B.Sc. Computer Science", IsActive: true},
		&models.Program{ID: 2, ProgramCode: "BCOM", Name: "B.Com.", IsActive: false},
	)
	emitter := &fakeEmitter{}
	svc := NewApplicationService(appRepo, historyRepo, programRepo, emitter)
	return svc, appRepo, historyRepo, emitter
}

func student(id uint) domain.Actor {
	return domain.Actor{UserID: id, Role: domain.RoleStudent}
}

func programAdmin(id, programID uint) domain.Actor {
	return domain.Actor{UserID: id, Role: domain.RoleProgramAdmin, ProgramID: uintPtr(programID)}
}

func createDraft(t *testing.T, svc *ApplicationService, actor domain.Actor) *models.Application {
	t.Helper()
	app, err := svc.Create(context.Background(), actor, &CreateApplicationInput{
		ProgramID:    1,
		AcademicYear: "2026-27",
		FullName:     "Asha Nair",
		Email:        "asha@example.com",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return app
}

func TestCreateApplication(t *testing.T) {
	svc, _, historyRepo, emitter := newLifecycleEnv()

	app := createDraft(t, svc, student(10))

	if app.Status != models.StatusDraft {
		t.Fatalf("expected draft status, got %q", app.Status)
	}
	want := fmt.Sprintf("APP%02d%06d", time.Now().Year()%100, 1)
	if app.ApplicationNumber != want {
		t.Fatalf("expected application number %q, got %q", want, app.ApplicationNumber)
	}

	entries, _ := historyRepo.ListByApplication(context.Background(), app.ID)
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].FromStatus != nil {
		t.Fatalf("creation entry must have nil from-status, got %q", *entries[0].FromStatus)
	}
	if entries[0].ToStatus != models.StatusDraft {
		t.Fatalf("expected to-status draft, got %q", entries[0].ToStatus)
	}
	if emitter.created != 1 {
		t.Fatalf("expected 1 created notification, got %d", emitter.created)
	}
}

func TestCreateApplicationNumbersAreSequential(t *testing.T) {
	svc, _, _, _ := newLifecycleEnv()

	first := createDraft(t, svc, student(10))
	second := createDraft(t, svc, student(11))

	if first.ApplicationNumber == second.ApplicationNumber {
		t.Fatalf("application numbers must be unique, both got %q", first.ApplicationNumber)
	}
}

func TestCreateApplicationStudentOnly(t *testing.T) {
	svc, _, _, _ := newLifecycleEnv()

	_, err := svc.Create(context.Background(), programAdmin(5, 1), &CreateApplicationInput{
		ProgramID:    1,
		AcademicYear: "2026-27",
		FullName:     "Asha Nair",
	})
	if !errors.Is(err, ErrNotStudent) {
		t.Fatalf("expected ErrNotStudent, got %v", err)
	}
}

func TestCreateApplicationInactiveProgram(t *testing.T) {
	svc, _, _, _ := newLifecycleEnv()

	_, err := svc.Create(context.Background(), student(10), &CreateApplicationInput{
		ProgramID:    2,
		AcademicYear: "2026-27",
		FullName:     "Asha Nair",
	})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid-state error for inactive program, got %v", err)
	}
}

func TestSubmitDraft(t *testing.T) {
	svc, appRepo, historyRepo, emitter := newLifecycleEnv()
	app := createDraft(t, svc, student(10))

	submitted, err := svc.Submit(context.Background(), student(10), app.ID)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if submitted.Status != models.StatusSubmitted {
		t.Fatalf("expected submitted status, got %q", submitted.Status)
	}
	if submitted.SubmittedAt == nil {
		t.Fatal("expected SubmittedAt to be stamped")
	}

	stored, _ := appRepo.GetByID(context.Background(), app.ID)
	if stored.Status != models.StatusSubmitted {
		t.Fatalf("expected persisted status submitted, got %q", stored.Status)
	}

	entries, _ := historyRepo.ListByApplication(context.Background(), app.ID)
	if len(entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(entries))
	}
	last := entries[len(entries)-1]
	if last.FromStatus == nil || *last.FromStatus != models.StatusDraft {
		t.Fatalf("expected from-status draft, got %v", last.FromStatus)
	}
	if last.ToStatus != models.StatusSubmitted {
		t.Fatalf("expected to-status submitted, got %q", last.ToStatus)
	}
	if emitter.submitted != 1 {
		t.Fatalf("expected 1 submitted notification, got %d", emitter.submitted)
	}
}

func TestSubmitRequiresDraft(t *testing.T) {
	svc, _, _, _ := newLifecycleEnv()
	app := createDraft(t, svc, student(10))

	if _, err := svc.Submit(context.Background(), student(10), app.ID); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	_, err := svc.Submit(context.Background(), student(10), app.ID)
	if !errors.Is(err, ErrNotDraft) {
		t.Fatalf("expected ErrNotDraft on re-submit, got %v", err)
	}
}

func TestSubmitOwnerOnly(t *testing.T) {
	svc, _, _, _ := newLifecycleEnv()
	app := createDraft(t, svc, student(10))

	_, err := svc.Submit(context.Background(), student(99), app.ID)
	if !errors.Is(err, ErrNotApplicationActor) {
		t.Fatalf("expected ErrNotApplicationActor, got %v", err)
	}
}

func TestStaffStatusChangeStampsReview(t *testing.T) {
	svc, appRepo, _, emitter := newLifecycleEnv()
	app := createDraft(t, svc, student(10))
	if _, err := svc.Submit(context.Background(), student(10), app.ID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	reviewer := programAdmin(5, 1)
	updated, err := svc.Update(context.Background(), reviewer, app.ID, &UpdateApplicationInput{
		Status: strPtr(models.StatusApproved),
	})
	if err != nil {
		t.Fatalf("staff update failed: %v", err)
	}
	if updated.Status != models.StatusApproved {
		t.Fatalf("expected approved, got %q", updated.Status)
	}
	if updated.ReviewedBy == nil || *updated.ReviewedBy != reviewer.UserID {
		t.Fatalf("expected ReviewedBy %d, got %v", reviewer.UserID, updated.ReviewedBy)
	}
	if updated.ReviewedAt == nil {
		t.Fatal("expected ReviewedAt to be stamped")
	}

	stored, _ := appRepo.GetByID(context.Background(), app.ID)
	firstReview := *stored.ReviewedAt

	// A later transition must not overwrite the review stamp
	if _, err := svc.Update(context.Background(), reviewer, app.ID, &UpdateApplicationInput{
		Status: strPtr(models.StatusFrozen),
	}); err != nil {
		t.Fatalf("second transition failed: %v", err)
	}
	stored, _ = appRepo.GetByID(context.Background(), app.ID)
	if !stored.ReviewedAt.Equal(firstReview) {
		t.Fatal("ReviewedAt must be set only once")
	}

	if len(emitter.changes) != 2 {
		t.Fatalf("expected 2 status-change notifications, got %d", len(emitter.changes))
	}
}

func TestStaffSameStatusIsNoOp(t *testing.T) {
	svc, _, historyRepo, emitter := newLifecycleEnv()
	app := createDraft(t, svc, student(10))
	if _, err := svc.Submit(context.Background(), student(10), app.ID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	before := len(historyRepo.entries)
	_, err := svc.Update(context.Background(), programAdmin(5, 1), app.ID, &UpdateApplicationInput{
		Status: strPtr(models.StatusSubmitted),
	})
	if err != nil {
		t.Fatalf("same-status update failed: %v", err)
	}
	if len(historyRepo.entries) != before {
		t.Fatal("same-status update must not append history")
	}
	if len(emitter.changes) != 0 {
		t.Fatalf("same-status update must not notify, got %d changes", len(emitter.changes))
	}
}

func TestStaffRejectsUnknownStatus(t *testing.T) {
	svc, _, _, _ := newLifecycleEnv()
	app := createDraft(t, svc, student(10))

	_, err := svc.Update(context.Background(), programAdmin(5, 1), app.ID, &UpdateApplicationInput{
		Status: strPtr("archived"),
	})
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestStudentUpdateDropsStatus(t *testing.T) {
	svc, appRepo, historyRepo, _ := newLifecycleEnv()
	app := createDraft(t, svc, student(10))

	before := len(historyRepo.entries)
	updated, err := svc.Update(context.Background(), student(10), app.ID, &UpdateApplicationInput{
		MobileNumber: strPtr("9876543210"),
		Status:       strPtr(models.StatusApproved),
	})
	if err != nil {
		t.Fatalf("student update failed: %v", err)
	}
	if updated.MobileNumber != "9876543210" {
		t.Fatalf("expected mobile number applied, got %q", updated.MobileNumber)
	}
	if updated.Status != models.StatusDraft {
		t.Fatalf("student must not change status, got %q", updated.Status)
	}
	stored, _ := appRepo.GetByID(context.Background(), app.ID)
	if stored.Status != models.StatusDraft {
		t.Fatalf("persisted status must stay draft, got %q", stored.Status)
	}
	if len(historyRepo.entries) != before {
		t.Fatal("student update must not append history")
	}
}

func TestStudentUpdateBlockedAfterSubmit(t *testing.T) {
	svc, _, _, _ := newLifecycleEnv()
	app := createDraft(t, svc, student(10))
	if _, err := svc.Submit(context.Background(), student(10), app.ID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	_, err := svc.Update(context.Background(), student(10), app.ID, &UpdateApplicationInput{
		City: strPtr("Pune"),
	})
	if !errors.Is(err, ErrNotEditableState) {
		t.Fatalf("expected ErrNotEditableState, got %v", err)
	}
}

func TestStudentUpdateAllowedAfterRejection(t *testing.T) {
	svc, _, _, _ := newLifecycleEnv()
	app := createDraft(t, svc, student(10))
	if _, err := svc.Submit(context.Background(), student(10), app.ID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := svc.Update(context.Background(), programAdmin(5, 1), app.ID, &UpdateApplicationInput{
		Status: strPtr(models.StatusRejected),
	}); err != nil {
		t.Fatalf("rejection failed: %v", err)
	}

	updated, err := svc.Update(context.Background(), student(10), app.ID, &UpdateApplicationInput{
		Remarks: strPtr("Corrected marks"),
	})
	if err != nil {
		t.Fatalf("post-rejection student update failed: %v", err)
	}
	if updated.Remarks != "Corrected marks" {
		t.Fatalf("expected remarks applied, got %q", updated.Remarks)
	}
}

func TestGetByIDAuthorization(t *testing.T) {
	svc, _, _, _ := newLifecycleEnv()
	app := createDraft(t, svc, student(10))

	if _, err := svc.GetByID(context.Background(), student(10), app.ID); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), programAdmin(5, 1), app.ID); err != nil {
		t.Fatalf("program admin read failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), programAdmin(5, 2), app.ID); !errors.Is(err, ErrNotApplicationActor) {
		t.Fatalf("expected ErrNotApplicationActor for foreign program admin, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), student(99), app.ID); !errors.Is(err, ErrNotApplicationActor) {
		t.Fatalf("expected ErrNotApplicationActor for another student, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), student(10), 404); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestListScopesByRole(t *testing.T) {
	svc, _, _, _ := newLifecycleEnv()
	createDraft(t, svc, student(10))
	createDraft(t, svc, student(11))

	mine, err := svc.List(context.Background(), student(10), &ListApplicationsInput{})
	if err != nil {
		t.Fatalf("student list failed: %v", err)
	}
	if len(mine.Applications) != 1 {
		t.Fatalf("student must see only own applications, got %d", len(mine.Applications))
	}

	all, err := svc.List(context.Background(), domain.Actor{UserID: 1, Role: domain.RoleAdmin}, &ListApplicationsInput{})
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if len(all.Applications) != 2 {
		t.Fatalf("admin must see all applications, got %d", len(all.Applications))
	}

	_, err = svc.List(context.Background(), student(10), &ListApplicationsInput{Status: "bogus"})
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus for bad filter, got %v", err)
	}
}

func TestUnassignedProgramAdminSeesNothing(t *testing.T) {
	svc, _, _, _ := newLifecycleEnv()
	createDraft(t, svc, student(10))
	createDraft(t, svc, student(11))

	unassigned := domain.Actor{UserID: 5, Role: domain.RoleProgramAdmin}

	if _, err := svc.List(context.Background(), unassigned, &ListApplicationsInput{}); !errors.Is(err, ErrNotApplicationActor) {
		t.Fatalf("expected ErrNotApplicationActor for unassigned program admin, got %v", err)
	}
	if _, err := svc.GetStatistics(context.Background(), unassigned, "2026-27"); !errors.Is(err, ErrStaffOnly) {
		t.Fatalf("expected ErrStaffOnly for unassigned program admin, got %v", err)
	}
}

func TestGetStatistics(t *testing.T) {
	svc, _, _, _ := newLifecycleEnv()
	app := createDraft(t, svc, student(10))
	createDraft(t, svc, student(11))
	if _, err := svc.Submit(context.Background(), student(10), app.ID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	stats, err := svc.GetStatistics(context.Background(), programAdmin(5, 1), "2026-27")
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if stats.Total != 2 {
		t.Fatalf("expected total 2, got %d", stats.Total)
	}
	if stats.ByStatus[models.StatusSubmitted] != 1 || stats.ByStatus[models.StatusDraft] != 1 {
		t.Fatalf("unexpected breakdown: %v", stats.ByStatus)
	}
	// Every status appears, even with zero count
	if len(stats.ByStatus) != 7 {
		t.Fatalf("expected all 7 statuses in breakdown, got %d", len(stats.ByStatus))
	}

	if _, err := svc.GetStatistics(context.Background(), student(10), "2026-27"); !errors.Is(err, ErrStaffOnly) {
		t.Fatalf("expected ErrStaffOnly, got %v", err)
	}
	if _, err := svc.GetStatistics(context.Background(), programAdmin(5, 1), ""); !errors.Is(err, ErrAcademicYearRequired) {
		t.Fatalf("expected ErrAcademicYearRequired, got %v", err)
	}
}

func TestHistoryLedgerEndToEnd(t *testing.T) {
	svc, _, _, _ := newLifecycleEnv()
	app := createDraft(t, svc, student(10))
	if _, err := svc.Submit(context.Background(), student(10), app.ID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := svc.Update(context.Background(), programAdmin(5, 1), app.ID, &UpdateApplicationInput{
		Status: strPtr(models.StatusUnderReview),
	}); err != nil {
		t.Fatalf("under-review transition failed: %v", err)
	}
	if _, err := svc.Update(context.Background(), programAdmin(5, 1), app.ID, &UpdateApplicationInput{
		Status:        strPtr(models.StatusApproved),
		StatusRemarks: "All documents verified",
	}); err != nil {
		t.Fatalf("approval failed: %v", err)
	}

	entries, err := svc.GetHistory(context.Background(), student(10), app.ID)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 ledger entries, got %d", len(entries))
	}
	wantTo := []string{
		models.StatusDraft,
		models.StatusSubmitted,
		models.StatusUnderReview,
		models.StatusApproved,
	}
	for i, want := range wantTo {
		if entries[i].ToStatus != want {
			t.Fatalf("entry %d: expected to-status %q, got %q", i, want, entries[i].ToStatus)
		}
	}
	if entries[3].Remarks != "All documents verified" {
		t.Fatalf("expected custom remarks, got %q", entries[3].Remarks)
	}
}
