package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS - дашборд ходит с другого origin, список берётся из CORS_ALLOW_ORIGINS
func CORS(allowOrigins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Accept,Accept-Language,Authorization,ET-Client-Name",
		AllowCredentials: allowOrigins != "*" && allowOrigins != "",
	})
}
