package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vendormart/internal/domain"
	tokenrepo "vendormart/internal/repository/token"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

type userRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u domain.User) (*domain.User, error)
}

type vendorRepo interface {
	Create(ctx context.Context, v domain.Vendor) (*domain.Vendor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Vendor, error)
}

// Service handles registration, login and token verification for users,
// vendors and admins.
type Service struct {
	users       userRepo
	vendors     vendorRepo
	tokens      *tokenManager
	accessTTL   time.Duration
	refreshTTL  time.Duration
	passwordMin int
}

// New creates a Service with sane defaults.
func New(users userRepo, vendors vendorRepo, tokens tokenrepo.Repository) *Service {
	return &Service{
		users:       users,
		vendors:     vendors,
		tokens:      newTokenManager(tokens),
		accessTTL:   48 * time.Hour,
		refreshTTL:  30 * 24 * time.Hour,
		passwordMin: 8,
	}
}

// WithTTLs overrides the token lifetimes.
func (s *Service) WithTTLs(access, refresh time.Duration) *Service {
	if access > 0 {
		s.accessTTL = access
	}
	if refresh > 0 {
		s.refreshTTL = refresh
	}
	return s
}

// RegisterUserInput captures fields expected by the user signup endpoint.
type RegisterUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// RegisterUser creates a shopper account and issues an access token.
func (s *Service) RegisterUser(ctx context.Context, in RegisterUserInput) (*domain.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, "", fmt.Errorf("%w: email required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, "", fmt.Errorf("%w: name required", domain.ErrInvalidInput)
	}
	hashed, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	u, err := s.users.Create(ctx, domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hashed,
		Role:         domain.RoleUser,
	})
	if err != nil {
		return nil, "", err
	}

	access, err := s.tokens.Issue(ctx, Identity{SubjectID: u.ID, Role: u.Role, Email: u.Email}, "access", s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return u, access, nil
}

// LoginUser validates credentials and returns the user plus an access token.
// Admins log in through the same path; their role rides in the token.
func (s *Service) LoginUser(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))) != nil {
		return nil, "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, Identity{SubjectID: u.ID, Role: u.Role, Email: u.Email}, "access", s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return u, access, nil
}

// RegisterVendorInput captures fields expected by the vendor signup endpoint.
type RegisterVendorInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	ShopName string `json:"shopName"`
}

// RegisterVendor creates a seller account and issues an access token.
func (s *Service) RegisterVendor(ctx context.Context, in RegisterVendorInput) (*domain.Vendor, string, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, "", fmt.Errorf("%w: email required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.ShopName) == "" {
		return nil, "", fmt.Errorf("%w: shopName required", domain.ErrInvalidInput)
	}
	hashed, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	v, err := s.vendors.Create(ctx, domain.Vendor{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hashed,
		ShopName:     strings.TrimSpace(in.ShopName),
	})
	if err != nil {
		return nil, "", err
	}

	access, err := s.tokens.Issue(ctx, Identity{SubjectID: v.ID, Role: domain.RoleVendor, Email: v.Email}, "access", s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return v, access, nil
}

// LoginVendor validates vendor credentials and returns an access token.
func (s *Service) LoginVendor(ctx context.Context, email, password string) (*domain.Vendor, string, error) {
	v, err := s.vendors.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(v.PasswordHash), []byte(strings.TrimSpace(password))) != nil {
		return nil, "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, Identity{SubjectID: v.ID, Role: domain.RoleVendor, Email: v.Email}, "access", s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return v, access, nil
}

// Verify resolves a bearer token to the identity it was issued for.
func (s *Service) Verify(ctx context.Context, token string) (Identity, error) {
	id, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}

// GetUser loads a user profile by id.
func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UpdateProfile changes a user's name and phone.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		u.Phone = phone
	}
	return s.users.Update(ctx, *u)
}

func (s *Service) hashPassword(password string) (string, error) {
	password = strings.TrimSpace(password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func validatePassword(p string, min int) error {
	if len(p) < min {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("%w: password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number", domain.ErrInvalidInput)
	}
	return nil
}
