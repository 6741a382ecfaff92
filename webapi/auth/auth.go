// Package auth exposes registration and login endpoints.
package auth

import (
	"errors"

	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/dto"
	authsvc "github.com/gobank/core/pkg/service/auth"
	"github.com/gobank/core/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the authentication endpoints.
func Routes(app *fiber.App, authSvc *authsvc.Service) {
	app.Post("/auth/register", Register(authSvc))
	app.Post("/auth/login", Login(authSvc))
	app.Post("/auth/confirm-email", ConfirmEmail(authSvc))
	app.Post("/auth/password/forgot", ForgotPassword(authSvc))
	app.Post("/auth/password/reset", ResetPassword(authSvc))
}

// Register creates a new user and returns the profile.
func Register(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterInput](c)
		if input == nil {
			return err
		}
		user, err := authSvc.Register(c.Context(), dto.UserCreate{
			Username: input.Username,
			Email:    input.Email,
			Password: input.Password,
		})
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return common.ProblemDetailsJSON(c, "Username or email already taken", err)
			}
			return common.ProblemDetailsJSON(c, "Registration failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User registered", user)
	}
}

// Login authenticates with username or email and returns a JWT.
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err
		}
		user, err := authSvc.Login(c.Context(), input.Identity, input.Password)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return common.ProblemDetailsJSON(c, "Invalid identity or password", err,
					"Identity or password is incorrect", fiber.StatusUnauthorized)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		}
		token, err := authSvc.GenerateToken(user)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Success login", fiber.Map{"token": token})
	}
}

// ConfirmEmail marks the caller's email as verified using an emailed code.
func ConfirmEmail(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[ConfirmEmailInput](c)
		if input == nil {
			return err
		}
		if err := authSvc.ConfirmEmail(c.Context(), input.Code); err != nil {
			return common.ProblemDetailsJSON(c, "Email confirmation failed", err,
				"Invalid or expired confirmation code")
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Email confirmed", nil)
	}
}

// ForgotPassword emails a password-reset code. The response does not reveal
// whether the identity exists.
func ForgotPassword(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[ForgotPasswordInput](c)
		if input == nil {
			return err
		}
		if err := authSvc.SendPasswordReset(c.Context(), input.Identity); err != nil {
			return common.ProblemDetailsJSON(c, "Password reset failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK,
			"If the identity exists, a reset email has been sent", nil)
	}
}

// ResetPassword sets a new password using an emailed reset code.
func ResetPassword(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[ResetPasswordInput](c)
		if input == nil {
			return err
		}
		if err := authSvc.ConfirmPasswordReset(c.Context(), input.Code, input.Password); err != nil {
			return common.ProblemDetailsJSON(c, "Password reset failed", err,
				"Invalid or expired reset code")
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Password updated", nil)
	}
}
