// Package account exposes account lifecycle and lookup endpoints.
package account

import (
	"github.com/gobank/core/pkg/config"
	"github.com/gobank/core/pkg/middleware"
	accountsvc "github.com/gobank/core/pkg/service/account"
	"github.com/gobank/core/pkg/service/auth"
	"github.com/gobank/core/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Routes registers account endpoints. The /admin/accounts group requires the
// admin role.
func Routes(app *fiber.App, accountSvc *accountsvc.Service, cfg *config.AppConfig) {
	protected := middleware.JwtProtected(cfg.Jwt)
	app.Post("/account", protected, Open(accountSvc))
	app.Get("/account", protected, Get(accountSvc))
	app.Get("/account/balance", protected, Balance(accountSvc))

	admin := app.Group("/admin/accounts", protected, middleware.AdminOnly())
	admin.Get("/", List(accountSvc))
	admin.Get("/number/:number", ByNumber(accountSvc))
	admin.Get("/identity/:identity", ByIdentity(accountSvc))
	admin.Delete("/:id", Close(accountSvc))
}

// Open creates an account for the authenticated user.
func Open(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[OpenAccountRequest](c)
		if input == nil {
			return err
		}
		acct, err := accountSvc.Open(c.Context(), userID, input.OpeningBalance)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to open account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account opened", acct)
	}
}

// Get returns the caller's account.
func Get(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		acct, err := accountSvc.Get(c.Context(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Account not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account", acct)
	}
}

// Balance returns the caller's current balance.
func Balance(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		balance, err := accountSvc.Balance(c.Context(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Account not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance", fiber.Map{"balance": balance})
	}
}

// List returns all accounts with their owners.
func List(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := accountSvc.List(c.Context(), common.PageParams(c))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts", page)
	}
}

// ByNumber looks up an account by its number.
func ByNumber(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		number, err := c.ParamsInt("number")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account number", err, fiber.StatusBadRequest)
		}
		acct, err := accountSvc.ByNumber(c.Context(), number)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Account not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account", acct)
	}
}

// ByIdentity looks up an account by the owner's username or email.
func ByIdentity(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acct, err := accountSvc.ByIdentity(c.Context(), c.Params("identity"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Account not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account", acct)
	}
}

// Close deletes an account holding no funds.
func Close(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account id", err, fiber.StatusBadRequest)
		}
		if err := accountSvc.Close(c.Context(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to close account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account closed", nil)
	}
}

func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return auth.CurrentUserID(token)
}
