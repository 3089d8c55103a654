package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/NomadCrew/feedback-intake/config"
	"github.com/NomadCrew/feedback-intake/internal/intake"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows cross-origin form posts. A "*" entry, or no entry
// at all, allows every origin.
func CORSMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) > 0 && !slices.Contains(cfg.AllowedOrigins, "*") {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowWildcard = true
		return cors.New(corsConfig)
	}

	corsConfig.AllowAllOrigins = true
	handler := cors.New(corsConfig)

	// The cors handler ignores requests without a foreign Origin; allow-all
	// responses carry the CORS headers regardless.
	return func(c *gin.Context) {
		for k, v := range intake.ResponseHeaders() {
			if k == "Content-Type" {
				continue
			}
			c.Header(k, v)
		}
		handler(c)
	}
}
