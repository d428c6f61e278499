package services

import (
	"context"
	"sync"
	"time"

	"admitdesk/internal/adapters/persistence/models"
	"admitdesk/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// ============================================================
// In-memory repository fakes
// ============================================================

type fakeApplicationRepo struct {
	mu     sync.Mutex
	apps   map[uint]*models.Application
	seqs   map[int]int64
	nextID uint
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{
		apps: make(map[uint]*models.Application),
		seqs: make(map[int]int64),
	}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	app.ID = r.nextID
	copied := *app
	r.apps[app.ID] = &copied
	return nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) List(ctx context.Context, filter *repositories.ApplicationFilter) ([]*models.Application, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Application
	for _, app := range r.apps {
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.UserID != nil && app.UserID != *filter.UserID {
			continue
		}
		if filter.ProgramID != nil && app.ProgramID != *filter.ProgramID {
			continue
		}
		if filter.AcademicYear != "" && app.AcademicYear != filter.AcademicYear {
			continue
		}
		copied := *app
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeApplicationRepo) Update(ctx context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[app.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *app
	r.apps[app.ID] = &copied
	return nil
}

func (r *fakeApplicationRepo) NextSequence(ctx context.Context, year int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seqs[year]++
	return r.seqs[year], nil
}

func (r *fakeApplicationRepo) CountByStatus(ctx context.Context, academicYear string, programID *uint) ([]repositories.StatusCount, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	var total int64
	for _, app := range r.apps {
		if app.AcademicYear != academicYear {
			continue
		}
		if programID != nil && app.ProgramID != *programID {
			continue
		}
		counts[app.Status]++
		total++
	}
	var out []repositories.StatusCount
	for status, count := range counts {
		out = append(out, repositories.StatusCount{Status: status, Count: count})
	}
	return out, total, nil
}

func (r *fakeApplicationRepo) ListStaleSubmitted(ctx context.Context, olderThanDays int) ([]*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	var out []*models.Application
	for _, app := range r.apps {
		if app.Status != models.StatusSubmitted {
			continue
		}
		if app.SubmittedAt == nil || !app.SubmittedAt.Before(cutoff) {
			continue
		}
		copied := *app
		out = append(out, &copied)
	}
	return out, nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []*models.ApplicationStatusHistory
}

func (r *fakeHistoryRepo) Create(ctx context.Context, entry *models.ApplicationStatusHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *entry
	copied.ID = uint(len(r.entries) + 1)
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *fakeHistoryRepo) ListByApplication(ctx context.Context, applicationID uint) ([]*models.ApplicationStatusHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ApplicationStatusHistory
	for _, e := range r.entries {
		if e.ApplicationID == applicationID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeProgramRepo struct {
	mu       sync.Mutex
	programs map[uint]*models.Program
}

func newFakeProgramRepo(programs ...*models.Program) *fakeProgramRepo {
	r := &fakeProgramRepo{programs: make(map[uint]*models.Program)}
	for _, p := range programs {
		r.programs[p.ID] = p
	}
	return r
}

func (r *fakeProgramRepo) Create(ctx context.Context, program *models.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	program.ID = uint(len(r.programs) + 1)
	r.programs[program.ID] = program
	return nil
}

func (r *fakeProgramRepo) GetByID(ctx context.Context, id uint) (*models.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProgramRepo) GetByCode(ctx context.Context, code string) (*models.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.programs {
		if p.ProgramCode == code {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProgramRepo) List(ctx context.Context, includeInactive bool) ([]*models.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Program
	for _, p := range r.programs {
		if !includeInactive && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProgramRepo) Update(ctx context.Context, program *models.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[program.ID] = program
	return nil
}

func (r *fakeProgramRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.programs, id)
	return nil
}

func (r *fakeProgramRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.GetByCode(ctx, code)
	return err == nil, nil
}

type fakeDocumentRepo struct {
	mu     sync.Mutex
	docs   map[uint]*models.ApplicationDocument
	nextID uint
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[uint]*models.ApplicationDocument)}
}

func (r *fakeDocumentRepo) Create(ctx context.Context, doc *models.ApplicationDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	doc.ID = r.nextID
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) GetByID(ctx context.Context, id uint) (*models.ApplicationDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) GetByApplicationAndType(ctx context.Context, applicationID, certificateTypeID uint) (*models.ApplicationDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, doc := range r.docs {
		if doc.ApplicationID == applicationID && doc.CertificateTypeID == certificateTypeID {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDocumentRepo) ListByApplication(ctx context.Context, applicationID uint) ([]*models.ApplicationDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ApplicationDocument
	for _, doc := range r.docs {
		if doc.ApplicationID == applicationID {
			copied := *doc
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) Update(ctx context.Context, doc *models.ApplicationDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) CountByFileUpload(ctx context.Context, fileUploadID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, doc := range r.docs {
		if doc.FileUploadID == fileUploadID {
			count++
		}
	}
	return count, nil
}

type fakeRequirementRepo struct {
	mu     sync.Mutex
	reqs   map[uint]*models.ProgramCertificateRequirement
	nextID uint
}

func newFakeRequirementRepo(reqs ...*models.ProgramCertificateRequirement) *fakeRequirementRepo {
	r := &fakeRequirementRepo{reqs: make(map[uint]*models.ProgramCertificateRequirement)}
	for _, req := range reqs {
		r.reqs[req.ID] = req
		if req.ID > r.nextID {
			r.nextID = req.ID
		}
	}
	return r
}

func (r *fakeRequirementRepo) Create(ctx context.Context, req *models.ProgramCertificateRequirement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	req.ID = r.nextID
	r.reqs[req.ID] = req
	return nil
}

func (r *fakeRequirementRepo) GetByID(ctx context.Context, id uint) (*models.ProgramCertificateRequirement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return req, nil
}

func (r *fakeRequirementRepo) GetActive(ctx context.Context, programID, certificateTypeID uint) (*models.ProgramCertificateRequirement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.reqs {
		if req.ProgramID == programID && req.CertificateTypeID == certificateTypeID && req.IsActive {
			return req, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRequirementRepo) ListByProgram(ctx context.Context, programID uint, requiredOnly bool) ([]*models.ProgramCertificateRequirement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ProgramCertificateRequirement
	for _, req := range r.reqs {
		if req.ProgramID != programID || !req.IsActive {
			continue
		}
		if requiredOnly && !req.IsRequired {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (r *fakeRequirementRepo) Update(ctx context.Context, req *models.ProgramCertificateRequirement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reqs[req.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.reqs[req.ID] = req
	return nil
}

func (r *fakeRequirementRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reqs, id)
	return nil
}

func (r *fakeRequirementRepo) Exists(ctx context.Context, programID, certificateTypeID uint) (bool, error) {
	_, err := r.GetActive(ctx, programID, certificateTypeID)
	return err == nil, nil
}

func (r *fakeRequirementRepo) ExistsByCertificateType(ctx context.Context, certificateTypeID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.reqs {
		if req.CertificateTypeID == certificateTypeID && req.IsActive {
			return true, nil
		}
	}
	return false, nil
}

type fakeCertTypeRepo struct {
	mu      sync.Mutex
	types   map[uint]*models.CertificateType
	reqRepo *fakeRequirementRepo
}

func newFakeCertTypeRepo(reqRepo *fakeRequirementRepo, types ...*models.CertificateType) *fakeCertTypeRepo {
	r := &fakeCertTypeRepo{types: make(map[uint]*models.CertificateType), reqRepo: reqRepo}
	for _, ct := range types {
		r.types[ct.ID] = ct
	}
	return r
}

func (r *fakeCertTypeRepo) Create(ctx context.Context, ct *models.CertificateType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ct.ID = uint(len(r.types) + 1)
	r.types[ct.ID] = ct
	return nil
}

func (r *fakeCertTypeRepo) GetByID(ctx context.Context, id uint) (*models.CertificateType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ct, ok := r.types[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ct, nil
}

func (r *fakeCertTypeRepo) List(ctx context.Context, includeInactive bool) ([]*models.CertificateType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.CertificateType
	for _, ct := range r.types {
		if !includeInactive && !ct.IsActive {
			continue
		}
		out = append(out, ct)
	}
	return out, nil
}

func (r *fakeCertTypeRepo) ListNotLinked(ctx context.Context, programID uint) ([]*models.CertificateType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.CertificateType
	for _, ct := range r.types {
		if !ct.IsActive {
			continue
		}
		linked, _ := r.reqRepo.Exists(ctx, programID, ct.ID)
		if linked {
			continue
		}
		out = append(out, ct)
	}
	return out, nil
}

func (r *fakeCertTypeRepo) Update(ctx context.Context, ct *models.CertificateType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[ct.ID] = ct
	return nil
}

func (r *fakeCertTypeRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.types, id)
	return nil
}

func (r *fakeCertTypeRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ct := range r.types {
		if ct.Name == name {
			return true, nil
		}
	}
	return false, nil
}

type fakeFileRepo struct {
	mu      sync.Mutex
	uploads map[uint]*models.FileUpload
}

func newFakeFileRepo(uploads ...*models.FileUpload) *fakeFileRepo {
	r := &fakeFileRepo{uploads: make(map[uint]*models.FileUpload)}
	for _, u := range uploads {
		r.uploads[u.ID] = u
	}
	return r
}

func (r *fakeFileRepo) Create(ctx context.Context, upload *models.FileUpload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	upload.ID = uint(len(r.uploads) + 1)
	r.uploads[upload.ID] = upload
	return nil
}

func (r *fakeFileRepo) GetByID(ctx context.Context, id uint) (*models.FileUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.uploads[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeFileRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.uploads, id)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uint(len(r.users) + 1)
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) ListProgramAdmins(ctx context.Context, programID uint) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		if u.Role == "program_admin" && u.IsActive && u.ProgramID != nil && *u.ProgramID == programID {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *token
	r.tokens[token.TokenHash] = &copied
	return nil
}

func (r *fakeRefreshTokenRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *token
	return &copied, nil
}

func (r *fakeRefreshTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenHash]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	token.RevokedAt = &now
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(ctx context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, token := range r.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, token := range r.tokens {
		if token.ExpiresAt.Before(time.Now()) {
			delete(r.tokens, hash)
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) activeCount(userID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, token := range r.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			count++
		}
	}
	return count
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *n
	copied.ID = uint(len(r.notifications) + 1)
	r.notifications = append(r.notifications, &copied)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID uint, unreadOnly bool, offset, limit int) ([]*models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID && !n.IsRead {
			n.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) byUser(userID uint) []*models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// fakeEmitter records lifecycle notification calls
type fakeEmitter struct {
	mu        sync.Mutex
	created   int
	submitted int
	changes   []string
}

func (e *fakeEmitter) ApplicationCreated(ctx context.Context, app *models.Application) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.created++
}

func (e *fakeEmitter) ApplicationSubmitted(ctx context.Context, app *models.Application) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.submitted++
}

func (e *fakeEmitter) StatusChanged(ctx context.Context, app *models.Application, fromStatus, toStatus string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.changes = append(e.changes, fromStatus+">"+toStatus)
}
