package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cineshop/internal/validator"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrDuplicateUsername = errors.New("duplicate username")
)

var AnonymousUser = &User{}

type User struct {
	ID          int       `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Birthdate   *Date     `json:"birthdate"`
	IsEmployee  bool      `json:"is_employee"`
	IsSuperuser bool      `json:"is_superuser"`
	Password    password  `json:"-"`
	CreatedAt   time.Time `json:"-"`
	Version     int       `json:"-"`
}

type password struct {
	plaintext *string
	hash      []byte
}

func (p *password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), 12)
	if err != nil {
		return err
	}

	p.plaintext = &plaintextPassword
	p.hash = hash

	return nil
}

func (p *password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plaintextPassword))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

func ValidateEmail(v *validator.Validator, email string) {
	v.Check(email != "", "email", "email must be provided")
	if email != "" {
		v.Check(validator.Matches(email, validator.EmailRX), "email", "email is invalid")
		v.Check(validator.MaxChars(email, 127), "email", "email cannot be more than 127 characters")
	}
}

func ValidateUser(v *validator.Validator, user *User) {
	v.Check(user.Username != "", "username", "username must be provided")
	v.Check(validator.MaxChars(user.Username, 150), "username", "username cannot be more than 150 characters")

	ValidateEmail(v, user.Email)

	v.Check(user.FirstName != "", "first_name", "first name must be provided")
	v.Check(validator.MaxChars(user.FirstName, 50), "first_name", "first name cannot be more than 50 characters")

	v.Check(user.LastName != "", "last_name", "last name must be provided")
	v.Check(validator.MaxChars(user.LastName, 50), "last_name", "last name cannot be more than 50 characters")

	// The plaintext is only set when the request carried a password field.
	// Partial updates that leave the password alone skip these checks.
	if user.Password.plaintext != nil {
		v.Check(*user.Password.plaintext != "", "password", "password must be provided")
		v.Check(validator.MaxChars(*user.Password.plaintext, 72), "password", "password cannot be more than 72 characters")

		if user.Password.hash == nil {
			panic("missing password hash for user")
		}
	}
}

type UserModel struct {
	DB *sql.DB
}

func (m *UserModel) Insert(user *User) error {
	query := `INSERT INTO users (username, email, password_hash, first_name, last_name, birthdate, is_employee, is_superuser)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at, version`
	args := []interface{}{
		user.Username,
		user.Email,
		user.Password.hash,
		user.FirstName,
		user.LastName,
		user.Birthdate,
		user.IsEmployee,
		user.IsSuperuser,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)

	defer cancel()

	err := m.DB.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.Version)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "users_username_key"`:
			return ErrDuplicateUsername
		case err.Error() == `pq: duplicate key value violates unique constraint "users_email_key"`:
			return ErrDuplicateEmail
		default:
			return err
		}
	}
	return nil
}

func (m *UserModel) Get(id int) (*User, error) {
	if id < 1 {
		return nil, ErrNoRecordFound
	}

	query := `SELECT id, created_at, username, email, password_hash, first_name, last_name, birthdate, is_employee, is_superuser, version
	FROM users WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return m.scanUser(m.DB.QueryRowContext(ctx, query, id))
}

func (m *UserModel) GetByUsername(username string) (*User, error) {
	query := `SELECT id, created_at, username, email, password_hash, first_name, last_name, birthdate, is_employee, is_superuser, version
	FROM users WHERE username = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return m.scanUser(m.DB.QueryRowContext(ctx, query, username))
}

func (m *UserModel) GetByEmail(email string) (*User, error) {
	query := `SELECT id, created_at, username, email, password_hash, first_name, last_name, birthdate, is_employee, is_superuser, version
	FROM users WHERE email = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return m.scanUser(m.DB.QueryRowContext(ctx, query, email))
}

func (m *UserModel) scanUser(row *sql.Row) (*User, error) {
	var user User
	var birthdate sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Username,
		&user.Email,
		&user.Password.hash,
		&user.FirstName,
		&user.LastName,
		&birthdate,
		&user.IsEmployee,
		&user.IsSuperuser,
		&user.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNoRecordFound
		default:
			return nil, err
		}
	}
	if birthdate.Valid {
		user.Birthdate = &Date{Time: birthdate.Time}
	}
	return &user, nil
}

func (m *UserModel) Update(user *User) error {
	query := `UPDATE users SET username = $1, email = $2, password_hash = $3, first_name = $4, last_name = $5, birthdate = $6, is_employee = $7, version = version + 1
	WHERE id = $8 AND version = $9
	RETURNING version`
	args := []interface{}{
		user.Username,
		user.Email,
		user.Password.hash,
		user.FirstName,
		user.LastName,
		user.Birthdate,
		user.IsEmployee,
		user.ID,
		user.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.DB.QueryRowContext(ctx, query, args...).Scan(&user.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		case err.Error() == `pq: duplicate key value violates unique constraint "users_username_key"`:
			return ErrDuplicateUsername
		case err.Error() == `pq: duplicate key value violates unique constraint "users_email_key"`:
			return ErrDuplicateEmail
		default:
			return err
		}
	}
	return nil
}
