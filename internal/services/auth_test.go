package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kidomigon/roomcompanion-backend/internal/repos"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

type fakeStaffRepo struct {
	byUsername map[string]*types.Staff
	touched    []uuid.UUID
	updates    map[uuid.UUID]repos.StaffUpdate
}

func newFakeStaffRepo(staff ...*types.Staff) *fakeStaffRepo {
	r := &fakeStaffRepo{
		byUsername: make(map[string]*types.Staff),
		updates:    make(map[uuid.UUID]repos.StaffUpdate),
	}
	for _, s := range staff {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		r.byUsername[s.Username] = s
	}
	return r
}

func (r *fakeStaffRepo) Create(_ context.Context, _ *gorm.DB, staff *types.Staff) (*types.Staff, error) {
	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	r.byUsername[staff.Username] = staff
	return staff, nil
}
func (r *fakeStaffRepo) GetByUsername(_ context.Context, _ *gorm.DB, username string) (*types.Staff, error) {
	return r.byUsername[username], nil
}
func (r *fakeStaffRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Staff, error) {
	for _, s := range r.byUsername {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}
func (r *fakeStaffRepo) List(context.Context, *gorm.DB) ([]*types.Staff, error) {
	out := make([]*types.Staff, 0, len(r.byUsername))
	for _, s := range r.byUsername {
		out = append(out, s)
	}
	return out, nil
}
func (r *fakeStaffRepo) Update(_ context.Context, _ *gorm.DB, id uuid.UUID, update repos.StaffUpdate) error {
	r.updates[id] = update
	for _, s := range r.byUsername {
		if s.ID != id {
			continue
		}
		if update.DisplayName != nil {
			s.DisplayName = *update.DisplayName
		}
		if update.Role != nil {
			s.Role = *update.Role
		}
		if update.PasswordHash != nil {
			s.PasswordHash = *update.PasswordHash
		}
		if update.IsActive != nil {
			s.IsActive = *update.IsActive
		}
	}
	return nil
}
func (r *fakeStaffRepo) TouchLogin(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	r.touched = append(r.touched, id)
	return nil
}

type fakeSessionRepo struct {
	byToken map[string]*types.Session
	revoked []uuid.UUID
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byToken: make(map[string]*types.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, _ *gorm.DB, session *types.Session) (*types.Session, error) {
	r.byToken[session.Token] = session
	return session, nil
}
func (r *fakeSessionRepo) GetByToken(_ context.Context, _ *gorm.DB, token string) (*types.Session, error) {
	return r.byToken[token], nil
}
func (r *fakeSessionRepo) Delete(_ context.Context, _ *gorm.DB, token string) error {
	delete(r.byToken, token)
	return nil
}
func (r *fakeSessionRepo) DeleteByStaffID(_ context.Context, _ *gorm.DB, staffID uuid.UUID) error {
	r.revoked = append(r.revoked, staffID)
	for token, s := range r.byToken {
		if s.StaffID == staffID {
			delete(r.byToken, token)
		}
	}
	return nil
}
func (r *fakeSessionRepo) DeleteExpired(_ context.Context, _ *gorm.DB) error {
	now := time.Now().UTC()
	for token, s := range r.byToken {
		if s.ExpiresAt.Before(now) {
			delete(r.byToken, token)
		}
	}
	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func activeNurse(t *testing.T) *types.Staff {
	return &types.Staff{
		ID:           uuid.New(),
		Username:     "nancy",
		DisplayName:  "Nancy",
		PasswordHash: hashPassword(t, "correct horse"),
		Role:         types.RoleNurse,
		IsActive:     true,
	}
}

func TestLoginSuccess(t *testing.T) {
	staff := activeNurse(t)
	staffRepo := newFakeStaffRepo(staff)
	sessionRepo := newFakeSessionRepo()
	svc := NewAuthService(testLogger(t), staffRepo, sessionRepo, time.Hour)

	// Username is matched case-insensitively with surrounding space ignored.
	info, err := svc.Login(context.Background(), "  NANCY ", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if info.StaffID != staff.ID || info.StaffName != "Nancy" || info.Role != types.RoleNurse {
		t.Fatalf("info=%+v", info)
	}
	if info.Token == "" || info.CSRFToken == "" || info.Token == info.CSRFToken {
		t.Fatalf("tokens: session=%q csrf=%q", info.Token, info.CSRFToken)
	}

	session := sessionRepo.byToken[info.Token]
	if session == nil {
		t.Fatal("session not persisted")
	}
	if remaining := time.Until(session.ExpiresAt); remaining < 55*time.Minute || remaining > time.Hour {
		t.Fatalf("session TTL off: %v", remaining)
	}
	if len(staffRepo.touched) != 1 || staffRepo.touched[0] != staff.ID {
		t.Fatalf("last login not recorded: %v", staffRepo.touched)
	}
}

func TestLoginFailures(t *testing.T) {
	staff := activeNurse(t)
	inactive := activeNurse(t)
	inactive.Username = "harold"
	inactive.IsActive = false

	svc := NewAuthService(testLogger(t), newFakeStaffRepo(staff, inactive), newFakeSessionRepo(), time.Hour)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"unknown_username", "nobody", "correct horse"},
		{"wrong_password", "nancy", "wrong"},
		{"inactive_account", "harold", "correct horse"},
		{"empty_password", "nancy", ""},
		{"empty_username", "", "correct horse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Login(context.Background(), tc.username, tc.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("err=%v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	staff := activeNurse(t)
	staffRepo := newFakeStaffRepo(staff)
	sessionRepo := newFakeSessionRepo()
	svc := NewAuthService(testLogger(t), staffRepo, sessionRepo, time.Hour)

	info, err := svc.Login(context.Background(), "nancy", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	got, err := svc.Authenticate(context.Background(), info.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got == nil || got.StaffID != staff.ID || got.Role != types.RoleNurse || got.CSRFToken != info.CSRFToken {
		t.Fatalf("got=%+v", got)
	}

	if got, err := svc.Authenticate(context.Background(), ""); err != nil || got != nil {
		t.Fatalf("empty token: got=%+v err=%v", got, err)
	}
	if got, err := svc.Authenticate(context.Background(), "no-such-token"); err != nil || got != nil {
		t.Fatalf("unknown token: got=%+v err=%v", got, err)
	}
}

func TestAuthenticateExpiredSessionIsDeleted(t *testing.T) {
	staff := activeNurse(t)
	sessionRepo := newFakeSessionRepo()
	sessionRepo.byToken["stale"] = &types.Session{
		Token:     "stale",
		StaffID:   staff.ID,
		StaffName: staff.DisplayName,
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	svc := NewAuthService(testLogger(t), newFakeStaffRepo(staff), sessionRepo, time.Hour)

	got, err := svc.Authenticate(context.Background(), "stale")
	if err != nil || got != nil {
		t.Fatalf("expired session: got=%+v err=%v", got, err)
	}
	if _, still := sessionRepo.byToken["stale"]; still {
		t.Fatal("expired session must be deleted on sight")
	}
}

func TestAuthenticateDeactivatedStaff(t *testing.T) {
	staff := activeNurse(t)
	staffRepo := newFakeStaffRepo(staff)
	sessionRepo := newFakeSessionRepo()
	svc := NewAuthService(testLogger(t), staffRepo, sessionRepo, time.Hour)

	info, err := svc.Login(context.Background(), "nancy", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	staff.IsActive = false

	got, err := svc.Authenticate(context.Background(), info.Token)
	if err != nil || got != nil {
		t.Fatalf("deactivated staff session: got=%+v err=%v", got, err)
	}
}

func TestLogout(t *testing.T) {
	staff := activeNurse(t)
	sessionRepo := newFakeSessionRepo()
	svc := NewAuthService(testLogger(t), newFakeStaffRepo(staff), sessionRepo, time.Hour)

	info, err := svc.Login(context.Background(), "nancy", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(context.Background(), info.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if got, err := svc.Authenticate(context.Background(), info.Token); err != nil || got != nil {
		t.Fatalf("after logout: got=%+v err=%v", got, err)
	}
}

func TestCreateStaff(t *testing.T) {
	staffRepo := newFakeStaffRepo(activeNurse(t))
	svc := NewAuthService(testLogger(t), staffRepo, newFakeSessionRepo(), time.Hour)

	created, err := svc.CreateStaff(context.Background(), "Dana", "Dana K", "s3cret", types.RoleSupervisor)
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	if created.Username != "dana" || !created.IsActive {
		t.Fatalf("created=%+v", created)
	}
	if bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret")) != nil {
		t.Fatal("password hash does not verify")
	}

	if _, err := svc.CreateStaff(context.Background(), "nancy", "Dup", "pw", types.RoleNurse); err == nil {
		t.Fatal("duplicate username must be rejected")
	}
	if _, err := svc.CreateStaff(context.Background(), "eve", "Eve", "pw", "janitor"); err == nil {
		t.Fatal("unknown role must be rejected")
	}
}

func TestDeactivateStaff(t *testing.T) {
	admin := activeNurse(t)
	admin.Username = "admin"
	admin.Role = types.RoleAdmin
	target := activeNurse(t)

	staffRepo := newFakeStaffRepo(admin, target)
	sessionRepo := newFakeSessionRepo()
	svc := NewAuthService(testLogger(t), staffRepo, sessionRepo, time.Hour)

	info, err := svc.Login(context.Background(), "nancy", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.DeactivateStaff(context.Background(), admin.ID, admin.ID); err == nil {
		t.Fatal("self-deactivation must be rejected")
	}

	if err := svc.DeactivateStaff(context.Background(), admin.ID, target.ID); err != nil {
		t.Fatalf("DeactivateStaff: %v", err)
	}
	if target.IsActive {
		t.Fatal("target still active")
	}
	if _, still := sessionRepo.byToken[info.Token]; still {
		t.Fatal("target sessions must be revoked")
	}
}
