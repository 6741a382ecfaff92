package auth_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gobank/core/internal/fixtures"
	"github.com/gobank/core/pkg/config"
	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/dto"
	"github.com/gobank/core/pkg/service/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(store *fixtures.MemoryStore) *auth.Service {
	return newServiceWithSender(store, nil)
}

func newServiceWithSender(store *fixtures.MemoryStore, sender auth.Sender) *auth.Service {
	cfg := config.JwtConfig{Secret: "test-secret", Expiry: time.Hour}
	return auth.New(store, cfg, sender, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// capturingSender records outbound emails instead of delivering them.
type capturingSender struct {
	to, subject, body string
	sent              int
}

func (s *capturingSender) Send(to, subject, body string) error {
	s.to, s.subject, s.body = to, subject, body
	s.sent++
	return nil
}

// lastCode pulls the emailed code out of a message body; the code is always
// the final token of the text.
func (s *capturingSender) lastCode(t *testing.T) string {
	t.Helper()
	fields := strings.Fields(s.body)
	require.NotEmpty(t, fields)
	return fields[len(fields)-1]
}

// quickHash avoids paying the production bcrypt cost in every test.
func quickHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLogin_ByUsernameAndEmail(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc := newService(store)
	userID := uuid.New()
	store.SeedUser(userID, "erin", "erin@example.com", "user", quickHash(t, "hunter22"))

	user, err := svc.Login(context.Background(), "erin", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	user, err = svc.Login(context.Background(), "erin@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc := newService(store)
	store.SeedUser(uuid.New(), "erin", "erin@example.com", "user", quickHash(t, "hunter22"))

	_, err := svc.Login(context.Background(), "erin", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UnknownIdentity(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc := newService(store)

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegister_ThenLogin(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc := newService(store)

	user, err := svc.Register(context.Background(), dto.UserCreate{
		Username: "frank",
		Email:    "frank@example.com",
		Password: "s3cretpw",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleUser), user.Role)

	got, err := svc.Login(context.Background(), "frank", "s3cretpw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc := newService(store)
	store.SeedUser(uuid.New(), "grace", "grace@example.com", "user", "")

	_, err := svc.Register(context.Background(), dto.UserCreate{
		Username: "grace",
		Email:    "other@example.com",
		Password: "s3cretpw",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRegister_InvalidEmail(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc := newService(store)

	_, err := svc.Register(context.Background(), dto.UserCreate{
		Username: "heidi",
		Email:    "not-an-email",
		Password: "s3cretpw",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegister_ConfirmEmailRoundTrip(t *testing.T) {
	store := fixtures.NewMemoryStore()
	sender := &capturingSender{}
	svc := newServiceWithSender(store, sender)
	ctx := context.Background()

	user, err := svc.Register(ctx, dto.UserCreate{
		Username: "judy",
		Email:    "judy@example.com",
		Password: "s3cretpw",
	})
	require.NoError(t, err)
	assert.False(t, user.Verified)
	require.Equal(t, 1, sender.sent)
	assert.Equal(t, "judy@example.com", sender.to)

	require.NoError(t, svc.ConfirmEmail(ctx, sender.lastCode(t)))

	users, err := store.UserRepository()
	require.NoError(t, err)
	got, err := users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)
}

func TestConfirmEmail_BadCode(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc := newService(store)

	err := svc.ConfirmEmail(context.Background(), "not-a-code")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestPasswordReset_RoundTrip(t *testing.T) {
	store := fixtures.NewMemoryStore()
	sender := &capturingSender{}
	svc := newServiceWithSender(store, sender)
	ctx := context.Background()
	userID := uuid.New()
	store.SeedUser(userID, "kate", "kate@example.com", "user", quickHash(t, "oldpass1"))

	require.NoError(t, svc.SendPasswordReset(ctx, "kate@example.com"))
	require.Equal(t, 1, sender.sent)

	require.NoError(t, svc.ConfirmPasswordReset(ctx, sender.lastCode(t), "newpass1"))

	_, err := svc.Login(ctx, "kate", "oldpass1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	got, err := svc.Login(ctx, "kate", "newpass1")
	require.NoError(t, err)
	assert.Equal(t, userID, got.ID)
}

func TestPasswordReset_UnknownIdentityIsSilent(t *testing.T) {
	store := fixtures.NewMemoryStore()
	sender := &capturingSender{}
	svc := newServiceWithSender(store, sender)

	require.NoError(t, svc.SendPasswordReset(context.Background(), "ghost"))
	assert.Zero(t, sender.sent)
}

func TestConfirmPasswordReset_ShortPasswordRejected(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc := newService(store)

	err := svc.ConfirmPasswordReset(context.Background(), "whatever", "short")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// A reset code must not double as a confirmation code, or the other way
// round.
func TestPurposeCodes_NotInterchangeable(t *testing.T) {
	store := fixtures.NewMemoryStore()
	sender := &capturingSender{}
	svc := newServiceWithSender(store, sender)
	ctx := context.Background()
	store.SeedUser(uuid.New(), "liam", "liam@example.com", "user", quickHash(t, "hunter22"))

	require.NoError(t, svc.SendPasswordReset(ctx, "liam"))
	resetCode := sender.lastCode(t)

	err := svc.ConfirmEmail(ctx, resetCode)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc := newService(store)
	user := &dto.UserRead{ID: uuid.New(), Username: "ivan", Role: "admin"}

	signed, err := svc.GenerateToken(user)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	id, err := auth.CurrentUserID(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.True(t, auth.IsAdmin(token))
}

func TestCurrentUserID_MissingClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	_, err := auth.CurrentUserID(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
