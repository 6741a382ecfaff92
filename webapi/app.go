// Package webapi builds the HTTP surface of the bank. Handlers live in
// sub-packages per domain:
//   - auth: registration and login
//   - account: account lifecycle and lookup
//   - payment: debits, transfers and history
//   - user: profile endpoints
//   - admin: role management
package webapi

import (
	"strings"

	"github.com/gobank/core/pkg/app"
	accountweb "github.com/gobank/core/webapi/account"
	adminweb "github.com/gobank/core/webapi/admin"
	authweb "github.com/gobank/core/webapi/auth"
	"github.com/gobank/core/webapi/common"
	paymentweb "github.com/gobank/core/webapi/payment"
	userweb "github.com/gobank/core/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp initializes Fiber with the shared middleware and every route
// group.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return common.ProblemDetailsJSON(c, e.Message, err, e.Code)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	// Uses X-Forwarded-For when behind a proxy, falling back to the direct
	// peer address.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(c, "Too Many Requests", nil,
				"Rate limit exceeded", fiber.StatusTooManyRequests)
		},
	}))
	fiberApp.Use(recover.New())

	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authweb.Routes(fiberApp, a.AuthService)
	accountweb.Routes(fiberApp, a.AccountService, a.Config)
	paymentweb.Routes(fiberApp, a.PaymentService, a.Config)
	userweb.Routes(fiberApp, a.UserService, a.Config)
	adminweb.Routes(fiberApp, a.AdminService, a.Config)

	return fiberApp
}
