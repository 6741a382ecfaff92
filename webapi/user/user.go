// Package user exposes profile endpoints for the authenticated user.
package user

import (
	"github.com/gobank/core/pkg/config"
	"github.com/gobank/core/pkg/middleware"
	"github.com/gobank/core/pkg/service/auth"
	usersvc "github.com/gobank/core/pkg/service/user"
	"github.com/gobank/core/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UpdateEmailRequest is the request body for changing the email address.
type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Routes registers the profile endpoints.
func Routes(app *fiber.App, userSvc *usersvc.Service, cfg *config.AppConfig) {
	protected := middleware.JwtProtected(cfg.Jwt)
	app.Get("/user/me", protected, Me(userSvc))
	app.Put("/user/email", protected, UpdateEmail(userSvc))
}

// Me returns the caller's profile.
func Me(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		profile, err := userSvc.Get(c.Context(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "User not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Profile", profile)
	}
}

// UpdateEmail changes the caller's email address.
func UpdateEmail(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[UpdateEmailRequest](c)
		if input == nil {
			return err
		}
		if err := userSvc.UpdateEmail(c.Context(), userID, input.Email); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update email", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Email updated", nil)
	}
}

func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return auth.CurrentUserID(token)
}
