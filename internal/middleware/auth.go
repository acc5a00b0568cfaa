package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skillsim/apiserver/internal/dto"
	"github.com/skillsim/apiserver/internal/model"
	"github.com/skillsim/apiserver/internal/service"
)

const claimsKey = "auth_claims"

// Authenticate validates the bearer token and stores its claims on the
// context for the role gates below.
func Authenticate(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "missing bearer token"})
			return
		}
		claims, err := auth.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
			return
		}
		if claims.TokenType != "access" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "access token required"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// GetClaims returns the authenticated claims stored by Authenticate.
func GetClaims(c *gin.Context) (*service.Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*service.Claims)
	return claims, ok
}

// RequireOrgStaff admits any authenticated non-learner.
func RequireOrgStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok || claims.AccessType == model.AccessLearner {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "staff access required"})
			return
		}
		c.Next()
	}
}

// RequirePlatformAdmin admits only the platform operator role.
func RequirePlatformAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok || claims.AccessType != model.AccessCusmat {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "admin access required"})
			return
		}
		c.Next()
	}
}

// RequireLearner admits only learners, i.e. the simulation clients.
func RequireLearner() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok || claims.AccessType != model.AccessLearner {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "learner access required"})
			return
		}
		c.Next()
	}
}
