// Package admin exposes user-administration endpoints; every route requires
// the admin role.
package admin

import (
	"github.com/gobank/core/pkg/config"
	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/middleware"
	adminsvc "github.com/gobank/core/pkg/service/admin"
	"github.com/gobank/core/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SetRoleRequest is the request body for a role assignment.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// Routes registers the admin user-management endpoints.
func Routes(app *fiber.App, adminSvc *adminsvc.Service, cfg *config.AppConfig) {
	group := app.Group("/admin/users", middleware.JwtProtected(cfg.Jwt), middleware.AdminOnly())
	group.Get("/", ListUsers(adminSvc))
	group.Put("/:id/role", SetRole(adminSvc))
	group.Delete("/:id", DeleteUser(adminSvc))
}

// ListUsers lists users, optionally filtered by role.
func ListUsers(adminSvc *adminsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := adminSvc.ListByRole(c.Context(), c.Query("role"), common.PageParams(c))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list users", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Users", page)
	}
}

// SetRole assigns a role to a user.
func SetRole(adminSvc *adminsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user id", err, fiber.StatusBadRequest)
		}
		input, err := common.BindAndValidate[SetRoleRequest](c)
		if input == nil {
			return err
		}
		if err := adminSvc.SetRole(c.Context(), id, domain.Role(input.Role)); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to assign role", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Role assigned", nil)
	}
}

// DeleteUser removes a user. Users with an open account are refused.
func DeleteUser(adminSvc *adminsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user id", err, fiber.StatusBadRequest)
		}
		if err := adminSvc.DeleteUser(c.Context(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User deleted", nil)
	}
}
