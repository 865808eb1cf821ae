package user

import (
	"context"
	"database/sql"

	"wyzar-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, email, passwordHash string, isSeller bool) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	MarkVerified(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error

	SaveCode(ctx context.Context, code *VerificationCode) error
	ActiveCode(ctx context.Context, email string, purpose CodePurpose) (*VerificationCode, error)
	ConsumeCode(ctx context.Context, codeID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, email, passwordHash string, isSeller bool) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password, is_seller)
		VALUES ($1, $2, $3)
		RETURNING id, email, password, is_seller, is_verified, created_at`,
		email, passwordHash, isSeller,
	).Scan(&u.ID, &u.Email, &u.Password, &u.IsSeller, &u.IsVerified, &u.CreatedAt)

	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert user",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password, is_seller, is_verified, created_at
		FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Password, &u.IsSeller, &u.IsVerified, &u.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// FindByID deliberately never selects the password hash.
func (r *repository) FindByID(ctx context.Context, id uint) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, is_seller, is_verified, created_at
		FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.IsSeller, &u.IsVerified, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) MarkVerified(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_verified = TRUE WHERE email = $1`, email)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password = $1 WHERE email = $2`, passwordHash, email)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) SaveCode(ctx context.Context, code *VerificationCode) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO verification_codes (email, code_hash, purpose, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		code.Email, code.CodeHash, code.Purpose, code.ExpiresAt,
	).Scan(&code.ID)
}

// ActiveCode returns the most recent unconsumed code for the email/purpose
// pair. Expiry is checked by the caller so it can distinguish the error.
func (r *repository) ActiveCode(ctx context.Context, email string, purpose CodePurpose) (*VerificationCode, error) {
	var c VerificationCode
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, code_hash, purpose, expires_at, created_at
		FROM verification_codes
		WHERE email = $1 AND purpose = $2 AND consumed_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1`,
		email, purpose,
	).Scan(&c.ID, &c.Email, &c.CodeHash, &c.Purpose, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) ConsumeCode(ctx context.Context, codeID uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE verification_codes SET consumed_at = NOW()
		WHERE id = $1 AND consumed_at IS NULL`,
		codeID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrInvalidCode
	}
	return nil
}
