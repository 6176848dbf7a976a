package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-be/internal/utils"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, id string, params UpdateProfileParams) (*User, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, opts ListOptions) ([]User, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context, opts ListOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestRegister(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
			return u.Email == "new@example.com" &&
				u.Role == utils.RoleCustomer &&
				u.ID != "" &&
				u.Password != "password123" // stored hashed, never plaintext
		})).Return(nil)

		token, u, err := svc.Register(ctx, RegisterInput{
			Email:     "New@Example.com ",
			Password:  "password123",
			FirstName: "Thabo",
			LastName:  "Mokoena",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "new@example.com", u.Email)
		repo.AssertExpectations(t)
	})

	t.Run("WeakPassword", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, _, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "short"})
		assert.ErrorIs(t, err, ErrWeakPassword)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Create", ctx, mock.Anything).Return(ErrEmailExists)

		_, _, err := svc.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "password123"})
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	ctx := context.Background()

	hash, _ := HashPassword("password123")
	stored := &User{ID: "u1", Email: "known@example.com", Password: hash, Role: utils.RoleCustomer}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("FindByEmail", ctx, "known@example.com").Return(stored, nil)

		token, u, err := svc.Login(ctx, "known@example.com", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "u1", u.ID)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, ErrUserNotFound)

		_, _, err := svc.Login(ctx, "ghost@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("FindByEmail", ctx, "known@example.com").Return(stored, nil)

		_, _, err := svc.Login(ctx, "known@example.com", "wrongwrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestProfile(t *testing.T) {
	t.Run("RequiresAuth", func(t *testing.T) {
		svc := NewService(new(MockRepository))

		_, err := svc.Profile(context.Background())
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("ReturnsCurrentUser", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		ctx := utils.SetUserContext(context.Background(), "u1", "u1@example.com", utils.RoleCustomer)
		repo.On("GetByID", ctx, "u1").Return(&User{ID: "u1", Email: "u1@example.com"}, nil)

		u, err := svc.Profile(ctx)
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("PropagatesRepoError", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		ctx := utils.SetUserContext(context.Background(), "u1", "u1@example.com", utils.RoleCustomer)
		repo.On("UpdateProfile", ctx, "u1", mock.Anything).Return(nil, errors.New("db down"))

		_, err := svc.UpdateProfile(ctx, UpdateProfileParams{})
		assert.Error(t, err)
	})

	t.Run("PartialUpdate", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		ctx := utils.SetUserContext(context.Background(), "u1", "u1@example.com", utils.RoleCustomer)
		first := "Lindiwe"
		params := UpdateProfileParams{FirstName: &first}
		repo.On("UpdateProfile", ctx, "u1", params).
			Return(&User{ID: "u1", FirstName: "Lindiwe", LastName: "Mokoena"}, nil)

		u, err := svc.UpdateProfile(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, "Lindiwe", u.FirstName)
	})
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsUsersAndTotal", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		role := utils.RoleCustomer
		opts := ListOptions{Role: &role, Limit: 10, Page: 2}
		repo.On("List", ctx, opts).Return([]User{{ID: "u1"}, {ID: "u2"}}, nil)
		repo.On("Count", ctx, opts).Return(int64(14), nil)

		users, total, err := svc.List(ctx, opts)
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, int64(14), total)
	})

	t.Run("PropagatesRepoError", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("List", ctx, mock.Anything).Return(nil, errors.New("db down"))

		_, _, err := svc.List(ctx, ListOptions{})
		assert.Error(t, err)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("RefusesOwnAccount", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		ctx := utils.SetUserContext(context.Background(), "admin-1", "admin@example.com", utils.RoleAdmin)

		err := svc.Delete(ctx, "admin-1")
		assert.ErrorIs(t, err, ErrSelfDelete)
		repo.AssertNotCalled(t, "Delete")
	})

	t.Run("DeletesAnotherAccount", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		ctx := utils.SetUserContext(context.Background(), "admin-1", "admin@example.com", utils.RoleAdmin)
		repo.On("Delete", ctx, "u1").Return(nil)

		require.NoError(t, svc.Delete(ctx, "u1"))
		repo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		ctx := utils.SetUserContext(context.Background(), "admin-1", "admin@example.com", utils.RoleAdmin)
		repo.On("Delete", ctx, "ghost").Return(ErrUserNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, "ghost"), ErrUserNotFound)
	})
}
