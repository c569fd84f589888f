package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/response"
)

const featureContextKey = "feature"

// FeatureGate rejects requests to a disabled feature and tags enabled ones.
func FeatureGate(feature string, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, feature+" are disabled"))
			c.Abort()
			return
		}
		c.Set(featureContextKey, feature)
		c.Next()
	}
}

// Feature returns the feature name set by FeatureGate.
func Feature(c *gin.Context) string {
	return c.GetString(featureContextKey)
}
