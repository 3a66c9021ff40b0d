package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dealhub.backend/internal/domain/entities"
	domainerrors "dealhub.backend/internal/domain/errors"
	"dealhub.backend/internal/interfaces/http/middleware"
	"dealhub.backend/pkg/utils"
)

// parseIDParam parses a UUID path parameter
func parseIDParam(c *gin.Context, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.BadRequest("Invalid " + label + " ID")
	}
	return id, nil
}

// currentUser returns the authenticated caller set by the auth middleware
func currentUser(c *gin.Context) (uuid.UUID, entities.UserRole, error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return uuid.Nil, "", domainerrors.Unauthorized("User not authenticated")
	}
	role, _ := middleware.GetUserRole(c)
	return userID, role, nil
}

// pagination reads page and limit query parameters, normalized
func pagination(c *gin.Context) utils.PaginationParams {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return utils.GetPaginationParams(page, limit)
}

// optionalFloat parses a float query parameter, nil when absent
func optionalFloat(c *gin.Context, names ...string) (*float64, error) {
	for _, name := range names {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, domainerrors.BadRequest("Invalid " + name)
		}
		return &v, nil
	}
	return nil, nil
}
