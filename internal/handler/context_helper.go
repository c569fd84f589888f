package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/middleware"
)

// actorID returns the authenticated user ID or an empty string for anonymous calls.
func actorID(c *gin.Context) string {
	if claims := middleware.CurrentUser(c); claims != nil {
		return claims.UserID
	}
	return ""
}

func cachedMeta(c *gin.Context, cacheHit bool) map[string]interface{} {
	middleware.SetCacheHit(c, cacheHit)
	return middleware.ExtractMeta(c)
}
