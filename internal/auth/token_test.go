package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
}

func TestGenerateAndParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	clubID := uint(7)

	t.Run("RoundTrip", func(t *testing.T) {
		token, err := GenerateJWT(3, RoleClub, "club@example.com", &clubID)
		require.NoError(t, err)

		claims, err := ParseJWT(token)
		require.NoError(t, err)
		assert.Equal(t, uint(3), claims.StaffID)
		assert.Equal(t, RoleClub, claims.Role)
		assert.Equal(t, "club@example.com", claims.Email)
		require.NotNil(t, claims.ClubID)
		assert.Equal(t, uint(7), *claims.ClubID)
	})

	t.Run("AdminHasNoClubID", func(t *testing.T) {
		token, err := GenerateJWT(1, RoleAdmin, "admin@example.com", nil)
		require.NoError(t, err)

		claims, err := ParseJWT(token)
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, claims.Role)
		assert.Nil(t, claims.ClubID)
	})

	t.Run("TamperedToken", func(t *testing.T) {
		token, err := GenerateJWT(1, RoleAdmin, "admin@example.com", nil)
		require.NoError(t, err)

		_, err = ParseJWT(token + "x")
		assert.Error(t, err)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := GenerateJWT(1, RoleAdmin, "admin@example.com", nil)
		require.NoError(t, err)

		t.Setenv("JWT_SECRET", "another-secret")
		_, err = ParseJWT(token)
		assert.Error(t, err)
	})
}

func TestGenerateJWT_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateJWT(1, RoleAdmin, "admin@example.com", nil)
	assert.Error(t, err)
}

type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) FindByEmail(ctx context.Context, email string) (*Staff, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Staff), args.Error(1)
}

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	hash, err := HashPassword("correct-pass")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		repo := new(MockStaffRepository)
		repo.On("FindByEmail", mock.Anything, "admin@example.com").
			Return(&Staff{ID: 1, Email: "admin@example.com", Password: hash, Role: RoleAdmin}, nil)

		svc := NewService(repo)
		token, err := svc.Login(ctx, "admin@example.com", "correct-pass")
		require.NoError(t, err)

		claims, err := ParseJWT(token)
		require.NoError(t, err)
		assert.Equal(t, uint(1), claims.StaffID)
		assert.Equal(t, RoleAdmin, claims.Role)
		repo.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockStaffRepository)
		repo.On("FindByEmail", mock.Anything, "admin@example.com").
			Return(&Staff{ID: 1, Email: "admin@example.com", Password: hash, Role: RoleAdmin}, nil)

		svc := NewService(repo)
		_, err := svc.Login(ctx, "admin@example.com", "wrong-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(MockStaffRepository)
		repo.On("FindByEmail", mock.Anything, "ghost@example.com").
			Return(nil, ErrInvalidCredentials)

		svc := NewService(repo)
		_, err := svc.Login(ctx, "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestStaffRepository_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "password", "role", "club_id"}).
			AddRow(3, "club@example.com", "hashed", RoleClub, 7)

		mock.ExpectQuery(`SELECT (.+) FROM staff WHERE email = \$1`).
			WithArgs("club@example.com").
			WillReturnRows(rows)

		s, err := repo.FindByEmail(ctx, "club@example.com")
		require.NoError(t, err)
		assert.Equal(t, uint(3), s.ID)
		assert.Equal(t, RoleClub, s.Role)
		require.NotNil(t, s.ClubID)
		assert.Equal(t, uint(7), *s.ClubID)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM staff WHERE email = \$1`).
			WithArgs("ghost@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM staff WHERE email = \$1`).
			WithArgs("club@example.com").
			WillReturnError(errors.New("database error"))

		_, err := repo.FindByEmail(ctx, "club@example.com")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}
