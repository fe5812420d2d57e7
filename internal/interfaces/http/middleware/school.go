package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Keys used to store school scope in gin.Context
const (
	SchoolIDKey     = "school_id"
	SchoolHeaderKey = "X-School-ID"
)

// SchoolInfo holds the validated school information
type SchoolInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// SchoolValidator checks that a school exists and is active
type SchoolValidator interface {
	ValidateSchool(schoolID string) (*SchoolInfo, error)
}

// SchoolMiddlewareConfig holds configuration for school middleware
type SchoolMiddlewareConfig struct {
	// SkipPaths are paths that don't require school context (e.g., health check)
	SkipPaths []string
	// Required determines if school context is mandatory
	Required bool
	// Validator is an optional validator to check if the school exists and is active
	Validator SchoolValidator
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultSchoolConfig returns default school middleware configuration
func DefaultSchoolConfig() SchoolMiddlewareConfig {
	return SchoolMiddlewareConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/metrics", "/api/v1/health"},
		Required:  true,
		Validator: nil,
		Logger:    nil,
	}
}

// SchoolMiddleware extracts the school scope from the X-School-ID header
func SchoolMiddleware() gin.HandlerFunc {
	return SchoolMiddlewareWithConfig(DefaultSchoolConfig())
}

// SchoolMiddlewareWithConfig returns school middleware with custom configuration
func SchoolMiddlewareWithConfig(cfg SchoolMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check if path should be skipped
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		schoolID := c.GetHeader(SchoolHeaderKey)

		// Validate school ID format if present
		if schoolID != "" {
			if _, err := uuid.Parse(schoolID); err != nil {
				respondUnauthorized(c, "Invalid school ID format")
				return
			}
		}

		// Check if school is required
		if schoolID == "" && cfg.Required {
			respondUnauthorized(c, "School identification required")
			return
		}

		// Optional: Validate school exists and is active
		var schoolInfo *SchoolInfo
		if schoolID != "" && cfg.Validator != nil {
			var err error
			schoolInfo, err = cfg.Validator.ValidateSchool(schoolID)
			if err != nil {
				log := cfg.Logger
				if log == nil {
					log = logger.FromContext(c.Request.Context())
				}
				log.Warn("School validation failed",
					zap.String("school_id", schoolID),
					zap.Error(err),
				)
				respondUnauthorized(c, "Invalid or inactive school")
				return
			}
		}

		// Set school scope in context
		if schoolID != "" {
			// Set in gin context for easy access in handlers
			c.Set(SchoolIDKey, schoolID)
			if schoolInfo != nil {
				c.Set("school_name", schoolInfo.Name)
			}

			// Set in request context for service layer access
			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, _ = logger.WithSchoolID(ctx, log, schoolID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetSchoolID retrieves the school ID from gin.Context
func GetSchoolID(c *gin.Context) string {
	if schoolID, exists := c.Get(SchoolIDKey); exists {
		if sid, ok := schoolID.(string); ok {
			return sid
		}
	}
	return ""
}

// GetSchoolUUID retrieves the school ID as UUID from gin.Context
func GetSchoolUUID(c *gin.Context) (uuid.UUID, error) {
	schoolID := GetSchoolID(c)
	if schoolID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(schoolID)
}

// MustGetSchoolUUID retrieves the school ID as UUID or panics if not found.
// Use this only in handlers behind SchoolMiddleware with Required set.
func MustGetSchoolUUID(c *gin.Context) uuid.UUID {
	schoolUUID, err := GetSchoolUUID(c)
	if err != nil || schoolUUID == uuid.Nil {
		panic("valid school_id not found in context")
	}
	return schoolUUID
}

// OptionalSchoolMiddleware creates middleware that doesn't require a school
func OptionalSchoolMiddleware() gin.HandlerFunc {
	cfg := DefaultSchoolConfig()
	cfg.Required = false
	return SchoolMiddlewareWithConfig(cfg)
}
