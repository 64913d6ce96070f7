package auth

import (
	"context"
	"database/sql"
	"errors"
)

// Staff is an operator allowed to confirm manual settlements: a platform
// admin or a club account.
type Staff struct {
	ID       uint
	Email    string
	Password string
	Role     string
	ClubID   *uint
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Staff, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Staff, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, email, password, role, club_id FROM staff WHERE email = $1",
		email,
	)

	var s Staff
	err := row.Scan(&s.ID, &s.Email, &s.Password, &s.Role, &s.ClubID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// Service authenticates staff and issues tokens.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	staff, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if !CheckPasswordHash(password, staff.Password) {
		return "", ErrInvalidCredentials
	}

	return GenerateJWT(staff.ID, staff.Role, staff.Email, staff.ClubID)
}
