package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"devdrawer/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, username, email, password_hash, email_verified,
	verification_token_hash, verification_token_expires,
	reset_token_hash, reset_token_expires, created_at, updated_at`

type UserRepo struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// UserUpdate carries the profile fields to overwrite; nil fields are left untouched.
type UserUpdate struct {
	Username      *string
	Email         *string
	EmailVerified *bool
	PasswordHash  *string
}

func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.EmailVerified == nil && u.PasswordHash == nil
}

func NewUserRepo(pool *pgxpool.Pool, timeout time.Duration) *UserRepo {
	return &UserRepo{pool: pool, timeout: timeout}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, verification_token_hash, verification_token_expires)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.VerificationTokenHash,
		user.VerificationTokenExpires,
	)

	created, err := scanUser(row)
	if err != nil {
		return nil, translate("insert user", err)
	}
	return created, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "get user by id", "id = $1", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "get user by email", "email = $1", email)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "get user by username", "username = $1", username)
}

// GetByIdentifier matches either the email or the username.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return r.getOne(ctx, "get user by identifier", "email = $1 OR username = $1", identifier)
}

func (r *UserRepo) SetVerificationToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd, err := r.pool.Exec(ctx, `
		UPDATE users
		SET verification_token_hash = $1, verification_token_expires = $2, updated_at = NOW()
		WHERE id = $3
	`, tokenHash, expiresAt, userID)
	if err != nil {
		return translate("update verification token", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update verification token: %w", ErrNotFound)
	}
	return nil
}

// ConsumeVerificationToken marks the owner of an unexpired token as verified and
// clears the token in one statement, so a token can be used at most once.
func (r *UserRepo) ConsumeVerificationToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET email_verified = TRUE, verification_token_hash = NULL, verification_token_expires = NULL, updated_at = NOW()
		WHERE verification_token_hash = $1 AND verification_token_expires > $2
		RETURNING `+userColumns, tokenHash, now)

	user, err := scanUser(row)
	if err != nil {
		return nil, translate("consume verification token", err)
	}
	return user, nil
}

func (r *UserRepo) SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd, err := r.pool.Exec(ctx, `
		UPDATE users
		SET reset_token_hash = $1, reset_token_expires = $2, updated_at = NOW()
		WHERE id = $3
	`, tokenHash, expiresAt, userID)
	if err != nil {
		return translate("update reset token", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update reset token: %w", ErrNotFound)
	}
	return nil
}

// ConsumeResetToken swaps the password hash for the owner of an unexpired reset
// token and clears the token.
func (r *UserRepo) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET password_hash = $1, reset_token_hash = NULL, reset_token_expires = NULL, updated_at = NOW()
		WHERE reset_token_hash = $2 AND reset_token_expires > $3
		RETURNING `+userColumns, passwordHash, tokenHash, now)

	user, err := scanUser(row)
	if err != nil {
		return nil, translate("consume reset token", err)
	}
	return user, nil
}

func (r *UserRepo) Update(ctx context.Context, userID string, update UserUpdate) (*models.User, error) {
	if update.Empty() {
		return r.GetByID(ctx, userID)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	setSQL, args := buildUserUpdate(update)
	args = append(args, userID)
	query := fmt.Sprintf(`
		UPDATE users
		SET %s, updated_at = NOW()
		WHERE id = $%d
		RETURNING %s`, setSQL, len(args), userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate("update user", err)
	}
	return user, nil
}

func (r *UserRepo) getOne(ctx context.Context, op, where string, arg any) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	user, err := scanUser(row)
	if err != nil {
		return nil, translate(op, err)
	}
	return user, nil
}

func buildUserUpdate(update UserUpdate) (string, []any) {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Username != nil {
		add("username", *update.Username)
	}
	if update.Email != nil {
		add("email", *update.Email)
	}
	if update.EmailVerified != nil {
		add("email_verified", *update.EmailVerified)
	}
	if update.PasswordHash != nil {
		add("password_hash", *update.PasswordHash)
	}

	return strings.Join(sets, ", "), args
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.EmailVerified,
		&user.VerificationTokenHash,
		&user.VerificationTokenExpires,
		&user.ResetTokenHash,
		&user.ResetTokenExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
