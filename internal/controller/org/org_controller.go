package org

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillsim/apiserver/internal/dto"
	"github.com/skillsim/apiserver/internal/middleware"
	"github.com/skillsim/apiserver/internal/model"
)

// resolveOrg returns the organization the request operates on: the caller's
// own organization, or any organization via the org_id query parameter when
// the caller is a platform operator.
func resolveOrg(c *gin.Context) (uint, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		return 0, false
	}

	if idStr := c.Query("org_id"); idStr != "" && claims.AccessType == model.AccessCusmat {
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid org_id format"})
			return 0, false
		}
		return uint(id), true
	}

	if claims.OrganizationID == nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "caller has no organization"})
		return 0, false
	}
	return *claims.OrganizationID, true
}
