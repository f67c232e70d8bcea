package repository

import (
	"context"

	"newsboard/internal/domain/entity"
)

type AccountRepository interface {
	// Create inserts the account and sets its ID and CreatedAt.
	// Returns entity.ErrDuplicate when the email or name is taken.
	Create(ctx context.Context, account *entity.Account) error
	// Get returns (nil, nil) when the account does not exist.
	Get(ctx context.Context, id int64) (*entity.Account, error)
	// GetByEmail returns (nil, nil) when no account has the email.
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
}
