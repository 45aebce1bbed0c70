package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MollahHamza/TRASHCANPRO/internal/model"
)

// MySQLUserRepo stores users in the `users` table.
type MySQLUserRepo struct{ DB *sql.DB }

func NewMySQLUserRepo(db *sql.DB) *MySQLUserRepo { return &MySQLUserRepo{DB: db} }

// Load reads every row; an empty table counts as ErrNotFound so the
// credential store seeds its default accounts.
func (r *MySQLUserRepo) Load(ctx context.Context) (map[string]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT username, password, role, points FROM users")
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := map[string]model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.Username, &u.PasswordDigest, &u.Role, &u.Points); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users[u.Username] = u
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: users table is empty", ErrNotFound)
	}
	return users, nil
}

// Save upserts every user inside one transaction.  Users are never deleted,
// so rows missing from the mapping are left alone.
func (r *MySQLUserRepo) Save(ctx context.Context, users map[string]model.User) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO users (username, password, role, points) VALUES (?,?,?,?)
		 ON DUPLICATE KEY UPDATE password=VALUES(password), role=VALUES(role), points=VALUES(points)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for name, u := range users {
		if _, err := stmt.ExecContext(ctx, name, u.PasswordDigest, u.Role, u.Points); err != nil {
			return fmt.Errorf("upsert user %s: %w", name, err)
		}
	}
	return tx.Commit()
}
