// Package payment exposes debit, transfer and history endpoints.
package payment

import (
	"github.com/gobank/core/pkg/config"
	"github.com/gobank/core/pkg/middleware"
	"github.com/gobank/core/pkg/service/auth"
	paymentsvc "github.com/gobank/core/pkg/service/payment"
	"github.com/gobank/core/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Routes registers payment endpoints. The /admin/payments group requires the
// admin role.
func Routes(app *fiber.App, paymentSvc *paymentsvc.Service, cfg *config.AppConfig) {
	protected := middleware.JwtProtected(cfg.Jwt)
	app.Post("/payment", protected, Debit(paymentSvc))
	app.Post("/payment/transfer", protected, Transfer(paymentSvc))
	app.Get("/payments", protected, History(paymentSvc))
	app.Get("/payments/transfers", protected, Transfers(paymentSvc))
	app.Get("/payment/:id", protected, Get(paymentSvc))

	admin := app.Group("/admin/payments", protected, middleware.AdminOnly())
	admin.Get("/", AllPayments(paymentSvc))
	admin.Get("/transfers", AllTransfers(paymentSvc))
}

// Debit pays money out of the caller's account.
func Debit(paymentSvc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[DebitRequest](c)
		if input == nil {
			return err
		}
		rec, err := paymentSvc.Debit(c.Context(), userID, input.Amount, input.Method, input.Description)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Payment failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Payment completed", rec)
	}
}

// Transfer moves money from the caller's account to another account.
func Transfer(paymentSvc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		rec, err := paymentSvc.Transfer(
			c.Context(), userID, input.ReceiverAccountNumber,
			input.Amount, input.Method, input.Description,
		)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Transfer failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transfer completed", rec)
	}
}

// History lists the caller's debit payments.
func History(paymentSvc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		page, err := paymentSvc.History(c.Context(), userID, common.PageParams(c))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list payments", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payments", page)
	}
}

// Transfers lists the caller's outgoing transfers.
func Transfers(paymentSvc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		page, err := paymentSvc.Transfers(c.Context(), userID, common.PageParams(c))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transfers", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfers", page)
	}
}

// Get returns a single payment owned by the caller.
func Get(paymentSvc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid payment id", err, fiber.StatusBadRequest)
		}
		rec, err := paymentSvc.Get(c.Context(), userID, id, isAdmin(c))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Payment not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment", rec)
	}
}

// AllPayments lists every payment in the ledger.
func AllPayments(paymentSvc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := paymentSvc.AllPayments(c.Context(), common.PageParams(c))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list payments", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payments", page)
	}
}

// AllTransfers lists every transfer in the ledger.
func AllTransfers(paymentSvc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := paymentSvc.AllTransfers(c.Context(), common.PageParams(c))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transfers", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfers", page)
	}
}

func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return auth.CurrentUserID(token)
}

func isAdmin(c *fiber.Ctx) bool {
	token, ok := c.Locals("user").(*jwt.Token)
	return ok && auth.IsAdmin(token)
}
