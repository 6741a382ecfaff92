package account_test

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

func TestOpenAccount(t *testing.T) {
	store := fixtures.NewMemoryStore()
	app := testutils.NewTestApp(t, store)
	userID := uuid.New()
	token := testutils.Token(t, userID, "user")

	resp := testutils.DoJSON(t, app, http.MethodPost, "/account", fiber.Map{
		"openingBalance": "150",
	}, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Data struct {
			Number  int             `json:"accountNumber"`
			Balance decimal.Decimal `json:"balance"`
		} `json:"data"`
	}
	testutils.Decode(t, resp, &body)
	assert.NotZero(t, body.Data.Number)
	assert.True(t, body.Data.Balance.Equal(decimal.NewFromInt(150)))
}

func TestOpenAccount_BelowMinimum(t *testing.T) {
	store := fixtures.NewMemoryStore()
	app := testutils.NewTestApp(t, store)
	token := testutils.Token(t, uuid.New(), "user")

	resp := testutils.DoJSON(t, app, http.MethodPost, "/account", fiber.Map{
		"openingBalance": "50",
	}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestOpenAccount_RequiresAuth(t *testing.T) {
	store := fixtures.NewMemoryStore()
	app := testutils.NewTestApp(t, store)

	resp := testutils.DoJSON(t, app, http.MethodPost, "/account", fiber.Map{
		"openingBalance": "150",
	}, "")
	assert.NotEqual(t, fiber.StatusCreated, resp.StatusCode)
}

func TestGetBalance(t *testing.T) {
	store := fixtures.NewMemoryStore()
	app := testutils.NewTestApp(t, store)
	userID := uuid.New()
	store.SeedAccount(uuid.New(), userID, decimal.NewFromInt(320))
	token := testutils.Token(t, userID, "user")

	resp := testutils.DoJSON(t, app, http.MethodGet, "/account/balance", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Balance decimal.Decimal `json:"balance"`
		} `json:"data"`
	}
	testutils.Decode(t, resp, &body)
	assert.True(t, body.Data.Balance.Equal(decimal.NewFromInt(320)))
}

func TestAdminList_ForbiddenForUserRole(t *testing.T) {
	store := fixtures.NewMemoryStore()
	app := testutils.NewTestApp(t, store)
	token := testutils.Token(t, uuid.New(), "user")

	resp := testutils.DoJSON(t, app, http.MethodGet, "/admin/accounts/", nil, token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminCloseAccount(t *testing.T) {
	store := fixtures.NewMemoryStore()
	app := testutils.NewTestApp(t, store)
	acctID := uuid.New()
	store.SeedAccount(acctID, uuid.New(), decimal.Zero)
	token := testutils.Token(t, uuid.New(), "admin")

	resp := testutils.DoJSON(t, app, http.MethodDelete, "/admin/accounts/"+acctID.String(), nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminCloseAccount_NonZeroBalance(t *testing.T) {
	store := fixtures.NewMemoryStore()
	app := testutils.NewTestApp(t, store)
	acctID := uuid.New()
	store.SeedAccount(acctID, uuid.New(), decimal.NewFromInt(10))
	token := testutils.Token(t, uuid.New(), "admin")

	resp := testutils.DoJSON(t, app, http.MethodDelete, "/admin/accounts/"+acctID.String(), nil, token)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
