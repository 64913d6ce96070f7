package club

import (
	"context"
	"database/sql"
	"errors"
)

var ErrNotFound = errors.New("club not found")

// Directory is a read-only lookup used to build human-facing
// payment descriptions and instructions.
type Directory interface {
	Get(ctx context.Context, id uint) (*Club, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Directory {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, id uint) (*Club, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(logo_url, '') FROM clubs WHERE id = $1
	`, id)

	var c Club
	err := row.Scan(&c.ID, &c.Name, &c.LogoURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}
