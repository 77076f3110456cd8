package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"

	"food-share-api/metrics"
	"food-share-api/models"
	"food-share-api/store"
)

// UserRepository is the part of the record store the identity service needs.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByPhone(ctx context.Context, phone string) (models.User, error)
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
}

// Courier delivers a temporary password to the account holder out of band.
type Courier interface {
	DeliverTemporaryPassword(ctx context.Context, user models.User, tempPassword string) error
}

// RegisterInput is a registration request after binding.
type RegisterInput struct {
	Name     string
	Phone    string
	Role     models.UserRole
	Password string
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// IdentityService registers users, checks credentials and resets passwords.
type IdentityService struct {
	users   UserRepository
	hasher  PasswordHasher
	courier Courier
	logger  *slog.Logger
	roles   []models.UserRole

	decoyOnce sync.Once
	decoyHash string
}

// IdentityOption customizes an IdentityService.
type IdentityOption func(*IdentityService)

// WithRegistrationRoles limits the roles a visitor may pick at registration.
// Admin is never accepted.
func WithRegistrationRoles(roles []models.UserRole) IdentityOption {
	return func(s *IdentityService) {
		s.roles = nil
		for _, r := range roles {
			if r.IsSelfService() {
				s.roles = append(s.roles, r)
			}
		}
	}
}

func NewIdentityService(users UserRepository, hasher PasswordHasher, courier Courier, logger *slog.Logger, opts ...IdentityOption) *IdentityService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &IdentityService{
		users:   users,
		hasher:  hasher,
		courier: courier,
		logger:  logger,
		roles:   models.SelfServiceRoles,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegistrationRoles lists the roles accepted by Register.
func (s *IdentityService) RegistrationRoles() []models.UserRole {
	return append([]models.UserRole(nil), s.roles...)
}

func (s *IdentityService) allowsRole(role models.UserRole) bool {
	for _, r := range s.roles {
		if r == role {
			return true
		}
	}
	return false
}

// compareDecoy spends the same bcrypt work as a real password check so an
// unknown phone answers as slowly as a wrong password.
func (s *IdentityService) compareDecoy(password string) {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash("food-share-decoy-password")
		if err != nil {
			s.logger.Warn("build decoy password hash", slog.Any("error", err))
			return
		}
		s.decoyHash = hash
	})
	if s.decoyHash != "" {
		_ = s.hasher.Compare(s.decoyHash, password)
	}
}

// Register creates an account for one of the registration roles.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	name := strings.TrimSpace(in.Name)
	phone := normalizePhone(in.Phone)
	role := models.UserRole(strings.ToLower(strings.TrimSpace(string(in.Role))))
	if name == "" || phone == "" || in.Password == "" {
		return models.User{}, fmt.Errorf("%w: name, phone and password are required", ErrInvalidInput)
	}
	if len(in.Password) > MaxPasswordBytes {
		return models.User{}, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, MaxPasswordBytes)
	}
	if !s.allowsRole(role) {
		return models.User{}, fmt.Errorf("%w: role must be one of %s", ErrInvalidInput, joinRoles(s.roles))
	}

	if _, err := s.users.FindByPhone(ctx, phone); err == nil {
		return models.User{}, ErrDuplicatePhone
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, fmt.Errorf("lookup phone: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Name: name, Phone: phone, Role: role, PasswordHash: hash}
	if err := s.users.Create(ctx, &user); err != nil {
		// A concurrent registration may have taken the phone between lookup and insert.
		if _, findErr := s.users.FindByPhone(ctx, phone); findErr == nil {
			return models.User{}, ErrDuplicatePhone
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", slog.Uint64("user_id", uint64(user.ID)), slog.String("role", string(user.Role)))
	return user, nil
}

// Login verifies phone and password. Unknown phones and wrong passwords are
// indistinguishable to the caller.
func (s *IdentityService) Login(ctx context.Context, phone, password string) (models.User, error) {
	phone = normalizePhone(phone)
	if phone == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return models.User{}, ErrInvalidCredentials
	}
	user, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.compareDecoy(password)
			metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("lookup phone: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return models.User{}, ErrInvalidCredentials
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info("user logged in", slog.Uint64("user_id", uint64(user.ID)), slog.String("role", string(user.Role)))
	return user, nil
}

// Recover replaces the password of the account behind phone with a random
// 6-digit temporary password and hands it to the courier.
func (s *IdentityService) Recover(ctx context.Context, phone string) error {
	phone = normalizePhone(phone)
	user, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Hash a throwaway password so unknown phones take as long as known ones.
			if temp, tErr := temporaryPassword(); tErr == nil {
				_, _ = s.hasher.Hash(temp)
			}
			metrics.RecoveriesTotal.WithLabelValues("unknown_phone").Inc()
			return ErrPhoneNotFound
		}
		return fmt.Errorf("lookup phone: %w", err)
	}

	temp, err := temporaryPassword()
	if err != nil {
		return fmt.Errorf("generate temporary password: %w", err)
	}
	hash, err := s.hasher.Hash(temp)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	// Deliver before storing: a failed delivery leaves the old password valid.
	if err := s.courier.DeliverTemporaryPassword(ctx, user, temp); err != nil {
		metrics.RecoveriesTotal.WithLabelValues("delivery_failed").Inc()
		return fmt.Errorf("deliver temporary password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("store temporary password: %w", err)
	}

	metrics.RecoveriesTotal.WithLabelValues("issued").Inc()
	s.logger.Info("temporary password issued", slog.Uint64("user_id", uint64(user.ID)))
	return nil
}

// SeedAdmin makes sure the administrator account exists. An existing admin is
// left untouched; a non-admin holding the phone is an error.
func (s *IdentityService) SeedAdmin(ctx context.Context, phone, password string) (models.User, error) {
	phone = normalizePhone(phone)
	if phone == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: admin phone and password are required", ErrInvalidInput)
	}
	if len(password) > MaxPasswordBytes {
		return models.User{}, fmt.Errorf("%w: admin password must be at most %d bytes", ErrInvalidInput, MaxPasswordBytes)
	}
	existing, err := s.users.FindByPhone(ctx, phone)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			return models.User{}, fmt.Errorf("admin phone %s already belongs to a %s account", phone, existing.Role)
		}
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	admin := models.User{Name: "Administrator", Phone: phone, Role: models.RoleAdmin, PasswordHash: hash}
	if err := s.users.Create(ctx, &admin); err != nil {
		return models.User{}, fmt.Errorf("create admin: %w", err)
	}
	s.logger.Info("admin account seeded", slog.Uint64("user_id", uint64(admin.ID)))
	return admin, nil
}

func joinRoles(roles []models.UserRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

func normalizePhone(phone string) string {
	return strings.TrimSpace(phone)
}

func temporaryPassword() (string, error) {
	// 100000..999999, same range as a six-digit PIN
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
