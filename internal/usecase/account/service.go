package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"newsboard/internal/domain/entity"
	"newsboard/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Service handles registration and login.
type Service struct {
	Accounts   repository.AccountRepository
	adminEmail string
	cost       int
	compare    func(hash, password []byte) error

	dummyOnce sync.Once
	dummyHash []byte
}

// NewService creates an account Service. An account registered with adminEmail is privileged.
func NewService(accounts repository.AccountRepository, adminEmail string) *Service {
	normalized, err := entity.NormalizeEmail(adminEmail)
	if err != nil {
		normalized = ""
	}
	return &Service{
		Accounts:   accounts,
		adminEmail: normalized,
		cost:       bcrypt.DefaultCost,
		compare:    bcrypt.CompareHashAndPassword,
	}
}

// WithCost sets the bcrypt cost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

// Register validates the input, hashes the password and stores a new account.
func (s *Service) Register(ctx context.Context, email, name, password string) (*entity.Account, error) {
	email, err := entity.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	name, err = entity.ValidateName(name)
	if err != nil {
		return nil, err
	}
	if err := entity.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc := &entity.Account{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Privileged:   s.adminEmail != "" && email == s.adminEmail,
	}
	if err := s.Accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "account registered",
		slog.Int64("account_id", acc.ID),
		slog.Bool("privileged", acc.Privileged))
	return acc, nil
}

// unknownAccountHash is compared against when the email has no account, so
// both outcomes spend one bcrypt comparison at the configured cost.
func (s *Service) unknownAccountHash() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("newsboard-unknown-account"), s.cost)
		if err != nil {
			slog.Error("failed to build placeholder hash", slog.Any("error", err))
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// Authenticate checks an email and password pair. An unknown email and a
// wrong password take the same time and return the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.Account, error) {
	email, err := entity.NormalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	acc, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if acc == nil {
		_ = s.compare(s.unknownAccountHash(), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := s.compare([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return acc, nil
}

// Get returns the account with id, or nil when it does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Account, error) {
	acc, err := s.Accounts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return acc, nil
}
