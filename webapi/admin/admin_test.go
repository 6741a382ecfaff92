package admin_test

import (
	"net/http"
	"testing"

	"github.com/gobank/core/internal/fixtures"
	"github.com/gobank/core/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRole(t *testing.T) {
	store := fixtures.NewMemoryStore()
	app := testutils.NewTestApp(t, store)
	userID := uuid.New()
	store.SeedUser(userID, "nina", "nina@example.com", "user", "")
	token := testutils.Token(t, uuid.New(), "admin")

	resp := testutils.DoJSON(t, app, http.MethodPut, "/admin/users/"+userID.String()+"/role", fiber.Map{
		"role": "admin",
	}, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = testutils.DoJSON(t, app, http.MethodGet, "/admin/users/?role=admin", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Items []struct {
				Username string `json:"username"`
			} `json:"items"`
		} `json:"data"`
	}
	testutils.Decode(t, resp, &body)
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, "nina", body.Data.Items[0].Username)
}

func TestSetRole_RejectsUnknownRole(t *testing.T) {
	store := fixtures.NewMemoryStore()
	app := testutils.NewTestApp(t, store)
	token := testutils.Token(t, uuid.New(), "admin")

	resp := testutils.DoJSON(t, app, http.MethodPut, "/admin/users/"+uuid.NewString()+"/role", fiber.Map{
		"role": "superuser",
	}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteUser(t *testing.T) {
	store := fixtures.NewMemoryStore()
	app := testutils.NewTestApp(t, store)
	userID := uuid.New()
	store.SeedUser(userID, "olga", "olga@example.com", "user", "")
	token := testutils.Token(t, uuid.New(), "admin")

	resp := testutils.DoJSON(t, app, http.MethodDelete, "/admin/users/"+userID.String(), nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = testutils.DoJSON(t, app, http.MethodDelete, "/admin/users/"+userID.String(), nil, token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteUser_ConflictsWithOpenAccount(t *testing.T) {
	store := fixtures.NewMemoryStore()
	app := testutils.NewTestApp(t, store)
	userID := uuid.New()
	store.SeedUser(userID, "pam", "pam@example.com", "user", "")
	store.SeedAccount(uuid.New(), userID, decimal.NewFromInt(50))
	token := testutils.Token(t, uuid.New(), "admin")

	resp := testutils.DoJSON(t, app, http.MethodDelete, "/admin/users/"+userID.String(), nil, token)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRoutes_RequireAdmin(t *testing.T) {
	store := fixtures.NewMemoryStore()
	app := testutils.NewTestApp(t, store)
	token := testutils.Token(t, uuid.New(), "user")

	resp := testutils.DoJSON(t, app, http.MethodGet, "/admin/users/", nil, token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = testutils.DoJSON(t, app, http.MethodGet, "/admin/users/", nil, "")
	assert.NotEqual(t, fiber.StatusOK, resp.StatusCode)
}
