package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"axiestudio/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByVerificationToken(token string) (*models.User, error)
	List(limit, offset int) ([]*models.User, error)
	Delete(id uuid.UUID) error
	UpdateUsername(id uuid.UUID, username string) error
	UpdatePassword(id uuid.UUID, passwordHash string) error

	// email-confirmation slot
	SetEmailVerification(id uuid.UUID, token string, expiresAt time.Time) error
	ActivateUser(id uuid.UUID) error

	// password-reset slot; each mutation is a single UPDATE so a
	// concurrent validate cannot lose a write
	SetResetCode(id uuid.UUID, code string, expiresAt time.Time) error
	IncrementResetAttempts(id uuid.UUID) (int, error)
	ClearResetCode(id uuid.UUID) error

	// refresh helpers
	UpdateRefresh(id uuid.UUID, token string, expiresAt time.Time) error
	GetByRefreshToken(token string) (*models.User, error)
	ClearRefresh(id uuid.UUID) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, username, email, password_hash, is_active, is_superuser, email_verified,
	email_verification_token, email_verification_expires,
	verification_code, verification_code_expires, verification_attempts,
	refresh_token, refresh_expires_at,
	created_at, updated_at
`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.IsSuperuser, &u.EmailVerified,
		&u.EmailVerificationToken, &u.EmailVerificationExpires,
		&u.VerificationCode, &u.VerificationCodeExpires, &u.VerificationAttempts,
		&u.RefreshToken, &u.RefreshExpiresAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user scan: %w", err)
	}
	return &u, nil
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			id, username, email, password_hash, is_active, is_superuser, email_verified,
			email_verification_token, email_verification_expires,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
		RETURNING created_at, updated_at
	`
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return r.DB.QueryRow(q,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsActive,
		user.IsSuperuser,
		user.EmailVerified,
		user.EmailVerificationToken,
		user.EmailVerificationExpires,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(id uuid.UUID) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRow(q, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.DB.QueryRow(q, email))
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.DB.QueryRow(q, username))
}

func (r *userRepository) GetByVerificationToken(token string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email_verification_token = $1`
	return scanUser(r.DB.QueryRow(q, token))
}

func (r *userRepository) List(limit, offset int) ([]*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("user list: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.IsSuperuser, &u.EmailVerified,
			&u.EmailVerificationToken, &u.EmailVerificationExpires,
			&u.VerificationCode, &u.VerificationCodeExpires, &u.VerificationAttempts,
			&u.RefreshToken, &u.RefreshExpiresAt,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("user list scan: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *userRepository) Delete(id uuid.UUID) error {
	_, err := r.DB.Exec(`DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *userRepository) UpdateUsername(id uuid.UUID, username string) error {
	_, err := r.DB.Exec(
		`UPDATE users SET username = $2, updated_at = NOW() WHERE id = $1`,
		id, username,
	)
	return err
}

func (r *userRepository) UpdatePassword(id uuid.UUID, passwordHash string) error {
	_, err := r.DB.Exec(
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash,
	)
	return err
}

func (r *userRepository) SetEmailVerification(id uuid.UUID, token string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET email_verification_token = $2,
		    email_verification_expires = $3,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, id, token, expiresAt)
	return err
}

// ActivateUser flips the account live and clears the confirmation slot in
// one statement; a token must never survive its own consumption.
func (r *userRepository) ActivateUser(id uuid.UUID) error {
	const q = `
		UPDATE users
		SET email_verified = TRUE,
		    is_active = TRUE,
		    email_verification_token = NULL,
		    email_verification_expires = NULL,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, id)
	return err
}

// SetResetCode installs a fresh code and resets the attempt counter;
// re-issuance always starts with a clean budget.
func (r *userRepository) SetResetCode(id uuid.UUID, code string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET verification_code = $2,
		    verification_code_expires = $3,
		    verification_attempts = 0,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, id, code, expiresAt)
	return err
}

// IncrementResetAttempts bumps the counter in the database, returning the
// new value. Two concurrent mismatches may race the read, but the
// increments themselves serialize here.
func (r *userRepository) IncrementResetAttempts(id uuid.UUID) (int, error) {
	const q = `
		UPDATE users
		SET verification_attempts = verification_attempts + 1,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING verification_attempts
	`
	var attempts int
	if err := r.DB.QueryRow(q, id).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("increment reset attempts: %w", err)
	}
	return attempts, nil
}

func (r *userRepository) ClearResetCode(id uuid.UUID) error {
	const q = `
		UPDATE users
		SET verification_code = NULL,
		    verification_code_expires = NULL,
		    verification_attempts = 0,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, id)
	return err
}

func (r *userRepository) UpdateRefresh(id uuid.UUID, token string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET refresh_token = $2, refresh_expires_at = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, id, token, expiresAt)
	return err
}

func (r *userRepository) GetByRefreshToken(token string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE refresh_token = $1`
	return scanUser(r.DB.QueryRow(q, token))
}

func (r *userRepository) ClearRefresh(id uuid.UUID) error {
	_, err := r.DB.Exec(
		`UPDATE users SET refresh_token = NULL, refresh_expires_at = NULL, updated_at = NOW() WHERE id = $1`,
		id,
	)
	return err
}
