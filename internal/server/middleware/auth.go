package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tvertner/Leonne.net/internal/common"
	"github.com/tvertner/Leonne.net/pkg/api"
)

// BearerAuth checks the shared deploy token on every call. An unset
// server token rejects everything rather than letting everyone in.
func BearerAuth(deployToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := common.GetAuthorizationToken(c.GetHeader("Authorization"))
		if err != nil || deployToken == "" || token != deployToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Status: "unauthorized"})
			return
		}
		c.Next()
	}
}
