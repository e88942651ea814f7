package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"fretenota/internal/domain"
	"fretenota/internal/service"
	"fretenota/mocks"
)

func TestUserService_Create_Success(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "new@test.com" && u.Role == domain.RoleMember && u.IsActive
	})).Return(nil)

	user, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:    "new@test.com",
		Password: "password123",
		FullName: "New User",
		Role:     domain.RoleMember,
	})

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	repo.AssertExpectations(t)
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	user, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:    "new@test.com",
		Password: "password123",
		FullName: "New User",
		Role:     domain.UserRole("superuser"),
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

	user, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:    "taken@test.com",
		Password: "password123",
		FullName: "Dup User",
		Role:     domain.RoleMember,
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserService_Update_PartialFields(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	userID := uuid.New()
	existing := &domain.User{
		ID:       userID,
		Email:    "old@test.com",
		FullName: "Old Name",
		Role:     domain.RoleMember,
		IsActive: true,
	}

	repo.On("GetByID", mock.Anything, userID).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.FullName == "New Name" && u.Email == "old@test.com"
	})).Return(nil)

	newName := "New Name"
	updated, err := svc.Update(context.Background(), userID, service.UpdateUserInput{
		FullName: &newName,
	})

	assert.NoError(t, err)
	assert.Equal(t, "New Name", updated.FullName)
	assert.Equal(t, "old@test.com", updated.Email)
	repo.AssertExpectations(t)
}

func TestUserService_Update_InvalidRole(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	userID := uuid.New()
	existing := &domain.User{ID: userID, Email: "user@test.com", Role: domain.RoleMember, IsActive: true}
	repo.On("GetByID", mock.Anything, userID).Return(existing, nil)

	badRole := domain.UserRole("root")
	updated, err := svc.Update(context.Background(), userID, service.UpdateUserInput{Role: &badRole})

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_Update_NotFound(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	userID := uuid.New()
	repo.On("GetByID", mock.Anything, userID).Return(nil, domain.ErrNotFound)

	updated, err := svc.Update(context.Background(), userID, service.UpdateUserInput{})

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_Delete(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	userID := uuid.New()
	repo.On("Delete", mock.Anything, userID).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), userID))
	repo.AssertExpectations(t)
}
