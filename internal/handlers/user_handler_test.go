package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dsrealty/estate-api/internal/models"
	"github.com/dsrealty/estate-api/internal/repository"
	"github.com/dsrealty/estate-api/internal/services"
)

type mockUserRepo struct {
	repository.UserRepository
	mockList func(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error)
}

func (m *mockUserRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return m.mockList(ctx, query)
}

func TestUserHandlerIndexDefaultStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockRepo := &mockUserRepo{}
	userService := services.NewUserService(mockRepo, nil, nil, nil)
	handler := NewUserHandler(userService)

	var capturedStatus string
	mockRepo.mockList = func(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
		capturedStatus = query.Filters["status"]
		return []models.User{}, 0, nil
	}

	// No status provided defaults to "active".
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/users", nil)
	handler.Index(c)
	assert.Equal(t, models.StatusActive, capturedStatus)

	// "all" disables the filter.
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/users?status=all", nil)
	handler.Index(c)
	assert.Equal(t, "", capturedStatus)

	// A specific status passes through.
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/users?status=inactive", nil)
	handler.Index(c)
	assert.Equal(t, "inactive", capturedStatus)
}

func TestParseListQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/bookings?page=3&per_page=50&search_term=DS&sort=created_at-desc", nil)

	query := parseListQuery(c)
	assert.Equal(t, 3, query.Page)
	assert.Equal(t, 50, query.PerPage)
	assert.Equal(t, "DS", query.Search)
	assert.Equal(t, "created_at", query.SortBy)
	assert.Equal(t, "desc", query.SortDir)
}

func TestParseListQueryDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/bookings?per_page=5000", nil)

	query := parseListQuery(c)
	assert.Equal(t, 1, query.Page)
	assert.Equal(t, 20, query.PerPage)
}

func TestHandleServiceErrorExceedsBalance(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handleServiceError(c, &services.ExceedsBalanceError{MaxAllowed: 3630000})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "3630000")
	assert.Contains(t, w.Body.String(), "max_allowed")
}

func TestHandleServiceErrorNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handleServiceError(c, services.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleServiceErrorPlotUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handleServiceError(c, services.ErrPlotUnavailable)

	assert.Equal(t, http.StatusConflict, w.Code)
}
