package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dsrealty/estate-api/internal/repository"
	"github.com/dsrealty/estate-api/internal/services"
)

// parseListQuery reads the standard pagination, search and sort params.
// Sort comes in as "field-direction", e.g. "created_at-desc".
func parseListQuery(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		query.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil && perPage > 0 && perPage <= 100 {
		query.PerPage = perPage
	}
	query.Search = c.Query("search_term")

	if sort := c.Query("sort"); sort != "" {
		field, dir := sort, "asc"
		for i := len(sort) - 1; i >= 0; i-- {
			if sort[i] == '-' {
				field, dir = sort[:i], sort[i+1:]
				break
			}
		}
		query.SortBy = field
		if dir == "desc" {
			query.SortDir = "desc"
		} else {
			query.SortDir = "asc"
		}
	}

	return query
}

// parseIDParam reads a positive integer path param.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// paginated builds the standard list response envelope.
func paginated(key string, items interface{}, total int64, query *repository.ListQuery) gin.H {
	totalPages := 0
	if query.PerPage > 0 {
		totalPages = int((total + int64(query.PerPage) - 1) / int64(query.PerPage))
	}
	return gin.H{
		key:           items,
		"total":       total,
		"page":        query.Page,
		"per_page":    query.PerPage,
		"total_pages": totalPages,
	}
}

// handleServiceError translates service layer errors into HTTP responses.
func handleServiceError(c *gin.Context, err error) {
	var balanceErr *services.ExceedsBalanceError
	switch {
	case errors.As(err, &balanceErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       balanceErr.Error(),
			"max_allowed": balanceErr.MaxAllowed,
		})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, services.ErrPlotUnavailable), errors.Is(err, services.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrBookingCancelled),
		errors.Is(err, services.ErrBookingDeleted),
		errors.Is(err, services.ErrInvalidAmount):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidPassword), errors.Is(err, services.ErrInvalidRecoveryCode):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
