package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"vsm-server/internal/apperr"
	"vsm-server/internal/core/auth"
	"vsm-server/internal/domain"
	resp "vsm-server/internal/transport/http/response"
)

const (
	KeyUserID = "userId"
	KeyRole   = "role"
)

// AuthJWT 校验 Bearer token，把 uid/role 放进上下文
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.AbortErr(c, apperr.Unauthorized("missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.AbortErr(c, apperr.Unauthorized("invalid token"))
			return
		}
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}

// RequirePerm 权限表守卫：必须挂在 AuthJWT 之后
func RequirePerm(p domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := domain.ParseRole(c.GetString(KeyRole))
		if !ok || !role.Can(p) {
			resp.AbortErr(c, apperr.Forbidden("insufficient role"))
			return
		}
		c.Next()
	}
}

// ActorRole 便捷读取，给 handler 做 ADMIN/EDITOR 分叉用
func ActorRole(c *gin.Context) domain.Role {
	r, _ := domain.ParseRole(c.GetString(KeyRole))
	return r
}

func ActorID(c *gin.Context) string { return c.GetString(KeyUserID) }
