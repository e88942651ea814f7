package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fretenota/internal/domain"
	"fretenota/internal/handler"
	"fretenota/internal/service"
	"fretenota/mocks"
)

func TestUserHandler_Create_Success(t *testing.T) {
	mockSvc := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockSvc)

	user := &domain.User{
		ID:       uuid.New(),
		Email:    "new@test.com",
		FullName: "New User",
		Role:     domain.RoleMember,
		IsActive: true,
	}

	mockSvc.On("Create", mock.Anything, service.CreateUserInput{
		Email:    "new@test.com",
		Password: "password123",
		FullName: "New User",
		Role:     domain.RoleMember,
	}).Return(user, nil)

	body, _ := json.Marshal(map[string]string{
		"email":     "new@test.com",
		"password":  "password123",
		"full_name": "New User",
		"role":      "member",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestUserHandler_Create_DuplicateEmail(t *testing.T) {
	mockSvc := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockSvc)

	mockSvc.On("Create", mock.Anything, mock.AnythingOfType("service.CreateUserInput")).
		Return(nil, domain.ErrDuplicateEmail)

	body, _ := json.Marshal(map[string]string{
		"email":     "taken@test.com",
		"password":  "password123",
		"full_name": "Dup User",
		"role":      "member",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandler_GetByID_AdminSeesAnyone(t *testing.T) {
	mockSvc := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockSvc)

	targetID := uuid.New()
	user := &domain.User{ID: targetID, Email: "member@test.com", Role: domain.RoleMember}
	mockSvc.On("GetByID", mock.Anything, targetID).Return(user, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/users/"+targetID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: targetID.String()}}
	setAuthContext(c, uuid.New(), domain.RoleAdmin)

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserHandler_GetByID_MemberSeesSelf(t *testing.T) {
	mockSvc := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockSvc)

	selfID := uuid.New()
	user := &domain.User{ID: selfID, Email: "member@test.com", Role: domain.RoleMember}
	mockSvc.On("GetByID", mock.Anything, selfID).Return(user, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/users/"+selfID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: selfID.String()}}
	setAuthContext(c, selfID, domain.RoleMember)

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserHandler_GetByID_MemberCannotSeeOthers(t *testing.T) {
	mockSvc := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockSvc)

	targetID := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/users/"+targetID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: targetID.String()}}
	setAuthContext(c, uuid.New(), domain.RoleMember)

	h.GetByID(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUserHandler_List_Success(t *testing.T) {
	mockSvc := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockSvc)

	users := []domain.User{
		{ID: uuid.New(), Email: "a@test.com"},
		{ID: uuid.New(), Email: "b@test.com"},
	}
	mockSvc.On("List", mock.Anything, 0, 20).Return(users, 2, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/users", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestUserHandler_Update_NotFound(t *testing.T) {
	mockSvc := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockSvc)

	id := uuid.New()
	mockSvc.On("Update", mock.Anything, id, mock.AnythingOfType("service.UpdateUserInput")).
		Return(nil, domain.ErrNotFound)

	body, _ := json.Marshal(map[string]string{"full_name": "Renamed"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPut, "/api/v1/users/"+id.String(), bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Update(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_Delete_Success(t *testing.T) {
	mockSvc := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockSvc)

	id := uuid.New()
	mockSvc.On("Delete", mock.Anything, id).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/users/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
