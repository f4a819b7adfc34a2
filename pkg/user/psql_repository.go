package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, username, email, hashed_password, registered_at,
		is_active, is_superuser, is_verified, verification_token, token_expires_at`

// PostgresUserRepository implements UserRepository on a pgx connection pool.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgreSQL-backed user repository.
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.HashedPassword,
		&u.RegisteredAt,
		&u.IsActive,
		&u.IsSuperuser,
		&u.IsVerified,
		&u.VerificationToken,
		&u.TokenExpiresAt,
	)
	return u, err
}

// Create inserts a new user. Unique violations on username or email map to
// ErrUserExists.
func (r *PostgresUserRepository) Create(ctx context.Context, params CreateUserParams) (User, error) {
	query := `
		INSERT INTO users (id, username, email, hashed_password, is_active, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, query,
		uuid.New(),
		params.Username,
		params.Email,
		params.HashedPassword,
		params.IsActive,
		params.IsSuperuser,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrUserExists
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) FindAll(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY registered_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetVerificationToken overwrites the user's live token in a single update,
// implicitly invalidating any previous token.
func (r *PostgresUserRepository) SetVerificationToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET verification_token = $2, token_expires_at = $3
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, userID, token, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ConsumeVerificationToken flips is_verified and clears the token in one
// statement. The row lock serializes it against a racing expiry fire.
func (r *PostgresUserRepository) ConsumeVerificationToken(ctx context.Context, token string) (User, error) {
	query := `
		UPDATE users
		SET is_verified = TRUE, verification_token = NULL, token_expires_at = NULL
		WHERE verification_token = $1
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrTokenNotFound
		}
		return User{}, err
	}
	return u, nil
}

// ClearVerificationToken is the compare-and-clear the expiry scheduler fires:
// it nulls the token only when the stored value still equals token, so a
// stale fire after a re-issue or a successful verify changes nothing.
func (r *PostgresUserRepository) ClearVerificationToken(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	query := `
		UPDATE users
		SET verification_token = NULL, token_expires_at = NULL
		WHERE id = $1 AND verification_token = $2
	`

	tag, err := r.db.Exec(ctx, query, userID, token)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresUserRepository) FindPendingVerifications(ctx context.Context) ([]User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE verification_token IS NOT NULL AND token_expires_at IS NOT NULL
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
