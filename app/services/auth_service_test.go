package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempohq/tempo/app/models"
	"github.com/tempohq/tempo/config"
	"github.com/tempohq/tempo/app/services"
	"github.com/tempohq/tempo/pkg/apperr"
	"github.com/tempohq/tempo/pkg/verify"
)

func newAuthService(store *fakeUserStore) *services.AuthService {
	return services.NewAuthService(store, verify.New(newMapStore()))
}

func signupNina(t *testing.T, svc *services.AuthService) *models.User {
	t.Helper()
	user, _, _, err := svc.Signup(context.Background(), services.SignupInput{
		Name:                 "Nina Vale",
		Email:                "nina@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	require.NoError(t, err)
	return user
}

func TestSignupHashesPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)

	user, token, expiry, err := svc.Signup(context.Background(), services.SignupInput{
		Name:                 "Nina Vale",
		Email:                "Nina@Example.com ",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiry.After(time.Now()))
	assert.NotEqual(t, "secret123", user.Password, "stored password must be hashed")
	assert.Equal(t, "nina@example.com", user.Email, "email is trimmed and lowercased")
}

func TestSignupDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)
	signupNina(t, svc)

	_, _, _, err := svc.Signup(context.Background(), services.SignupInput{
		Name:                 "Other Nina",
		Email:                "nina@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	require.Error(t, err)
	appErr, ok := err.(*apperr.Error)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "email")
}

func TestLoginSuccess(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)
	signupNina(t, svc)

	user, token, _, err := svc.Login(context.Background(), services.LoginInput{
		Email:    "nina@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Nina Vale", user.Name)
}

func TestLoginGenericFailureMessage(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)
	signupNina(t, svc)

	_, _, _, unknownErr := svc.Login(context.Background(), services.LoginInput{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	_, _, _, wrongErr := svc.Login(context.Background(), services.LoginInput{
		Email:    "nina@example.com",
		Password: "wrong-password",
	})
	require.Error(t, unknownErr)
	require.Error(t, wrongErr)

	// Responses must not reveal whether the email exists.
	assert.Equal(t, unknownErr.(*apperr.Error).Message, wrongErr.(*apperr.Error).Message)
	assert.Equal(t, http.StatusUnauthorized, unknownErr.(*apperr.Error).Status)
}

func TestChangePassword(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)
	user := signupNina(t, svc)

	token, _, err := svc.ChangePassword(context.Background(), user, services.ChangePasswordInput{
		CurrentPassword:      "secret123",
		Password:             "newsecret456",
		PasswordConfirmation: "newsecret456",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, user.PasswordChangedAt.IsZero())
	assert.True(t, user.PasswordChangedAt.Before(time.Now()), "stamp is backdated")

	// Old password no longer works, new one does.
	_, _, _, err = svc.Login(context.Background(), services.LoginInput{
		Email: "nina@example.com", Password: "secret123",
	})
	assert.Error(t, err)
	_, _, _, err = svc.Login(context.Background(), services.LoginInput{
		Email: "nina@example.com", Password: "newsecret456",
	})
	assert.NoError(t, err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)
	user := signupNina(t, svc)

	_, _, err := svc.ChangePassword(context.Background(), user, services.ChangePasswordInput{
		CurrentPassword:      "not-my-password",
		Password:             "newsecret456",
		PasswordConfirmation: "newsecret456",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*apperr.Error).Status)
}

func TestVerifyProfileFlow(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)
	user := signupNina(t, svc)

	code, err := svc.VerifyProfile(context.Background(), user, "")
	require.NoError(t, err)
	require.Len(t, code, 6)

	_, err = svc.VerifyProfile(context.Background(), user, code)
	require.NoError(t, err)
	assert.True(t, user.Verified)

	// Wrong code is a validation error.
	other := signupOther(t, svc)
	if _, err := svc.VerifyProfile(context.Background(), other, "000000"); assert.Error(t, err) {
		assert.Equal(t, apperr.KindValidation, err.(*apperr.Error).Kind)
	}
}

func signupOther(t *testing.T, svc *services.AuthService) *models.User {
	t.Helper()
	user, _, _, err := svc.Signup(context.Background(), services.SignupInput{
		Name:                 "Sam Rowe",
		Email:                "sam@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	require.NoError(t, err)
	return user
}

// ─── Guard ───────────────────────────────────────────────────────────────────

func protectedProbe(svc *services.AuthService) (http.Handler, *bool) {
	reached := false
	handler := svc.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &reached
}

func TestProtectRejectsMissingToken(t *testing.T) {
	svc := newAuthService(newFakeUserStore())
	handler, reached := protectedProbe(svc)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestProtectAcceptsBearerToken(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)
	_, token, _, err := svc.Signup(context.Background(), services.SignupInput{
		Name:                 "Nina Vale",
		Email:                "nina@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	require.NoError(t, err)

	handler, reached := protectedProbe(svc)
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

func TestProtectAcceptsCookieToken(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)
	_, token, _, err := svc.Signup(context.Background(), services.SignupInput{
		Name:                 "Nina Vale",
		Email:                "nina@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	require.NoError(t, err)

	handler, reached := protectedProbe(svc)
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.AddCookie(&http.Cookie{Name: services.TokenCookie, Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

func TestProtectRejectsStaleToken(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)
	user, token, _, err := svc.Signup(context.Background(), services.SignupInput{
		Name:                 "Nina Vale",
		Email:                "nina@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	require.NoError(t, err)

	// Simulate a password change after the token was issued.
	stored := store.users[user.ID.Hex()]
	stored.PasswordChangedAt = time.Now().Add(time.Minute)

	handler, reached := protectedProbe(svc)
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestProtectRejectsTokenWithoutIssueTime(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)
	user := signupNina(t, svc)

	// Validly signed, but no iat claim: the password-change check cannot
	// run, so the guard must not accept it.
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"sub":     user.ID.Hex(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte(config.JWTSecret()))
	require.NoError(t, err)

	handler, reached := protectedProbe(svc)
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestProtectRejectsDeletedUser(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)
	user, token, _, err := svc.Signup(context.Background(), services.SignupInput{
		Name:                 "Nina Vale",
		Email:                "nina@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	require.NoError(t, err)
	require.NoError(t, store.SoftDelete(context.Background(), user.ID.Hex()))

	handler, reached := protectedProbe(svc)
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}
