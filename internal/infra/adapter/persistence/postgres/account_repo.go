package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"newsboard/internal/domain/entity"
	"newsboard/internal/repository"
)

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) repository.AccountRepository {
	return &AccountRepo{db: db}
}

func (repo *AccountRepo) Create(ctx context.Context, account *entity.Account) error {
	const query = `
INSERT INTO accounts (email, name, password_hash, privileged)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`
	err := repo.db.QueryRowContext(ctx, query,
		account.Email, account.Name, account.PasswordHash, account.Privileged,
	).Scan(&account.ID, &account.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("Create: %w", entity.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *AccountRepo) Get(ctx context.Context, id int64) (*entity.Account, error) {
	const query = `
SELECT id, email, name, password_hash, privileged, created_at
FROM accounts
WHERE id = $1`
	return repo.getOne(ctx, "Get", query, id)
}

func (repo *AccountRepo) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	const query = `
SELECT id, email, name, password_hash, privileged, created_at
FROM accounts
WHERE email = $1`
	return repo.getOne(ctx, "GetByEmail", query, email)
}

func (repo *AccountRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Account, error) {
	var a entity.Account
	err := repo.db.QueryRowContext(ctx, query, arg).
		Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Privileged, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &a, nil
}
