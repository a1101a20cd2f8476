package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/repos"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

// ErrInvalidCredentials is returned for unknown usernames, wrong passwords,
// and deactivated accounts alike, so login responses do not leak which it was.
var ErrInvalidCredentials = errors.New("invalid username or password")

// SessionInfo is the authenticated-staff view handed to middleware and
// handlers. It never carries the password hash.
type SessionInfo struct {
	Token     string
	StaffID   uuid.UUID
	StaffName string
	Role      string
	CSRFToken string
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*SessionInfo, error)
	Logout(ctx context.Context, token string) error
	// Authenticate returns (nil, nil) for a missing, unknown, or expired
	// session; expired sessions are deleted on sight.
	Authenticate(ctx context.Context, token string) (*SessionInfo, error)

	CreateStaff(ctx context.Context, username, displayName, password, role string) (*types.Staff, error)
	UpdateStaff(ctx context.Context, id uuid.UUID, displayName, role, password string) error
	DeactivateStaff(ctx context.Context, actorID, id uuid.UUID) error
	ListStaff(ctx context.Context) ([]*types.Staff, error)
}

type authService struct {
	log         *logger.Logger
	staffRepo   repos.StaffRepo
	sessionRepo repos.SessionRepo
	sessionTTL  time.Duration
}

func NewAuthService(baseLog *logger.Logger, staffRepo repos.StaffRepo, sessionRepo repos.SessionRepo, sessionTTL time.Duration) AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 8 * time.Hour
	}
	return &authService{
		log:         baseLog.With("service", "AuthService"),
		staffRepo:   staffRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*SessionInfo, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	staff, err := s.staffRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("lookup staff: %w", err)
	}
	if staff == nil || !staff.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	// Opportunistic cleanup keeps the session table from accumulating
	// expired rows; a failure here must not block the login.
	if err := s.sessionRepo.DeleteExpired(ctx, nil); err != nil {
		s.log.Warn("expired session cleanup failed", "error", err)
	}

	session := &types.Session{
		Token:     uuid.NewString(),
		StaffID:   staff.ID,
		StaffName: staff.DisplayName,
		CSRFToken: uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(s.sessionTTL),
	}
	if _, err := s.sessionRepo.Create(ctx, nil, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := s.staffRepo.TouchLogin(ctx, nil, staff.ID); err != nil {
		s.log.Warn("failed to record last login", "error", err)
	}

	s.log.Info("staff logged in", "username", username, "role", staff.Role)
	return &SessionInfo{
		Token:     session.Token,
		StaffID:   staff.ID,
		StaffName: staff.DisplayName,
		Role:      staff.Role,
		CSRFToken: session.CSRFToken,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessionRepo.Delete(ctx, nil, token)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*SessionInfo, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.GetByToken(ctx, nil, token)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if session == nil {
		return nil, nil
	}
	if session.ExpiresAt.Before(time.Now().UTC()) {
		if err := s.sessionRepo.Delete(ctx, nil, token); err != nil {
			s.log.Warn("failed to delete expired session", "error", err)
		}
		return nil, nil
	}

	role := types.RoleNurse
	staff, err := s.staffRepo.GetByID(ctx, nil, session.StaffID)
	if err != nil {
		return nil, fmt.Errorf("lookup staff: %w", err)
	}
	if staff != nil {
		if !staff.IsActive {
			return nil, nil
		}
		role = staff.Role
	}

	return &SessionInfo{
		Token:     session.Token,
		StaffID:   session.StaffID,
		StaffName: session.StaffName,
		Role:      role,
		CSRFToken: session.CSRFToken,
	}, nil
}

func (s *authService) CreateStaff(ctx context.Context, username, displayName, password, role string) (*types.Staff, error) {
	username = normalizeUsername(username)
	displayName = strings.TrimSpace(displayName)
	if username == "" || displayName == "" || password == "" {
		return nil, fmt.Errorf("username, display name, and password required")
	}
	if !types.ValidStaffRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	existing, err := s.staffRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("lookup staff: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("username %q already exists", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	staff := &types.Staff{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := s.staffRepo.Create(ctx, nil, staff)
	if err != nil {
		return nil, fmt.Errorf("create staff: %w", err)
	}
	s.log.Info("staff account created", "username", username, "role", role)
	return created, nil
}

func (s *authService) UpdateStaff(ctx context.Context, id uuid.UUID, displayName, role, password string) error {
	if !types.ValidStaffRole(role) {
		return fmt.Errorf("invalid role %q", role)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return fmt.Errorf("display name required")
	}

	update := repos.StaffUpdate{
		DisplayName: &displayName,
		Role:        &role,
	}
	if password = strings.TrimSpace(password); password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		hashStr := string(hash)
		update.PasswordHash = &hashStr
	}
	return s.staffRepo.Update(ctx, nil, id, update)
}

// DeactivateStaff disables an account and revokes its sessions. Operators
// cannot deactivate themselves, so a facility can never lock out its last
// admin by accident.
func (s *authService) DeactivateStaff(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return fmt.Errorf("cannot deactivate your own account")
	}
	inactive := false
	if err := s.staffRepo.Update(ctx, nil, id, repos.StaffUpdate{IsActive: &inactive}); err != nil {
		return fmt.Errorf("deactivate staff: %w", err)
	}
	if err := s.sessionRepo.DeleteByStaffID(ctx, nil, id); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

func (s *authService) ListStaff(ctx context.Context) ([]*types.Staff, error) {
	return s.staffRepo.List(ctx, nil)
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
