package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the HMS web and mobile front-ends. An empty origin list
// allows every origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Requested-With",
			"Origin",
		},
		ExposedHeaders: []string{
			"Content-Length",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c.Handler
}
