package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/agrogb/agroledger/internal/domain"
	"github.com/agrogb/agroledger/internal/domain/entity"
	"github.com/agrogb/agroledger/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository sobre SQLite.
type UserRepo struct {
	q Querier
}

func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create inserta un usuario nuevo.
func (r *UserRepo) Create(u *entity.User) error {
	query := `
		INSERT INTO users (username, password_hash, role, email, full_name, phone, address, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.Exec(query,
		u.Username, u.PasswordHash, u.Role, u.Email, u.FullName, u.Phone, u.Address,
		entity.FormatTimestamp(u.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("create user: %w", mapSQLError(err))
	}
	u.ID, _ = res.LastInsertId()
	return nil
}

// GetByUsername busca un usuario por username exacto.
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	query := `
		SELECT id, username, password_hash, role, email, full_name, phone, address, last_updated
		FROM users WHERE username = ?`
	var (
		u           entity.User
		lastUpdated string
	)
	err := r.q.QueryRow(query, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role,
		&u.Email, &u.FullName, &u.Phone, &u.Address, &lastUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u.LastUpdated, err = entity.ParseTimestamp(lastUpdated); err != nil {
		return nil, fmt.Errorf("last_updated inválido %q: %w", lastUpdated, err)
	}
	return &u, nil
}

// List devuelve los usuarios ordenados por username.
func (r *UserRepo) List() ([]entity.User, error) {
	query := `
		SELECT id, username, password_hash, role, email, full_name, phone, address, last_updated
		FROM users ORDER BY username`
	rows, err := r.q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []entity.User
	for rows.Next() {
		var (
			u           entity.User
			lastUpdated string
		)
		err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role,
			&u.Email, &u.FullName, &u.Phone, &u.Address, &lastUpdated)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		if u.LastUpdated, err = entity.ParseTimestamp(lastUpdated); err != nil {
			return nil, fmt.Errorf("last_updated inválido %q: %w", lastUpdated, err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Count cuenta los usuarios registrados.
func (r *UserRepo) Count() (int, error) {
	var n int
	if err := r.q.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
