// Package services holds the business rules between controllers and
// repositories. Services own their store interfaces so tests can swap in
// fakes without a database.
package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tempohq/tempo/app/models"
	"github.com/tempohq/tempo/pkg/apperr"
	"github.com/tempohq/tempo/pkg/auth"
	"github.com/tempohq/tempo/pkg/listquery"
	"github.com/tempohq/tempo/pkg/metrics"
	"github.com/tempohq/tempo/pkg/verify"
)

// UserStore is what the auth and user services need from persistence.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, q listquery.Query) ([]models.User, listquery.Pagination, error)
	Update(ctx context.Context, user *models.User) error
	SoftDelete(ctx context.Context, id string) error
}

// TokenCookie is the cookie the guard reads when no bearer header is sent.
const TokenCookie = "jwt"

// loginFailedMsg is deliberately identical for unknown email and wrong
// password so responses don't leak which emails exist.
const loginFailedMsg = "Email or password is incorrect"

// SignupInput is the signup allow-list; body fields outside it (active,
// verified, anything else) are dropped on decode, never written.
type SignupInput struct {
	Name                 string `json:"name" validate:"required,min=2,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,confirmed"`
}

// LoginInput is the login allow-list.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordInput carries a password change for the logged-in user.
type ChangePasswordInput struct {
	CurrentPassword      string `json:"current_password" validate:"required"`
	Password             string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,confirmed"`
}

// AuthService implements signup, login, the route guard, password change,
// and profile verification.
type AuthService struct {
	users UserStore
	codes *verify.Codes
}

// NewAuthService wires the service to its stores.
func NewAuthService(users UserStore, codes *verify.Codes) *AuthService {
	return &AuthService{users: users, codes: codes}
}

// Signup registers a new account and issues its first token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, string, time.Time, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", time.Time{}, apperr.Internal(err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiry, err := auth.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", time.Time{}, apperr.Internal(err)
	}
	return user, token, expiry, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password produce the same 401.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, time.Time, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		metrics.RecordLogin(false)
		return nil, "", time.Time{}, apperr.Unauthorized(loginFailedMsg)
	}
	if !auth.CheckPassword(user.Password, in.Password) {
		metrics.RecordLogin(false)
		return nil, "", time.Time{}, apperr.Unauthorized(loginFailedMsg)
	}

	token, expiry, err := auth.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", time.Time{}, apperr.Internal(err)
	}
	metrics.RecordLogin(true)
	return user, token, expiry, nil
}

// ChangePassword re-hashes after checking the current password, stamps
// password_changed_at, and issues a fresh token.
//
// The stamp is backdated one second so the fresh token (issued in the same
// second) is not itself rejected by the stale-token check.
func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, in ChangePasswordInput) (string, time.Time, error) {
	if !auth.CheckPassword(user.Password, in.CurrentPassword) {
		return "", time.Time{}, apperr.Unauthorized("Current password is incorrect")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return "", time.Time{}, apperr.Internal(err)
	}

	user.Password = hash
	user.PasswordChangedAt = time.Now().Add(-time.Second)
	if err := s.users.Update(ctx, user); err != nil {
		return "", time.Time{}, err
	}

	token, expiry, err := auth.GenerateToken(user.ID.Hex())
	if err != nil {
		return "", time.Time{}, apperr.Internal(err)
	}
	return token, expiry, nil
}

// VerifyProfile runs the two-step code flow: without a code a fresh one is
// issued; with a code it is checked and the account marked verified.
// Returns the issued code ("" on the check step).
func (s *AuthService) VerifyProfile(ctx context.Context, user *models.User, code string) (string, error) {
	if code == "" {
		issued, err := s.codes.Issue(user.ID.Hex())
		if err != nil {
			return "", apperr.Internal(err)
		}
		return issued, nil
	}

	if err := s.codes.Check(user.ID.Hex(), code); err != nil {
		return "", apperr.ValidationField("code", "Verification code is incorrect or has expired.")
	}

	user.Verified = true
	if err := s.users.Update(ctx, user); err != nil {
		return "", err
	}
	return "", nil
}

// ─── Guard ───────────────────────────────────────────────────────────────────

// userKey stores the authenticated user in the request context.
type userKey struct{}

// CurrentUser returns the user placed in ctx by Protect.
func CurrentUser(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey{}).(*models.User)
	return u, ok
}

// WithUser returns ctx carrying user. Exported for handler tests.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// Protect is the route guard: it accepts a token from the Authorization
// bearer header or the jwt cookie, verifies it, loads the account, and
// rejects tokens issued before the last password change. Every failure is
// a 401.
func (s *AuthService) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			apperr.Write(w, r, apperr.Unauthorized("You are not logged in"))
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			apperr.Write(w, r, apperr.Unauthorized("Invalid or expired token"))
			return
		}

		user, err := s.users.FindByID(r.Context(), claims.UserID)
		if err != nil {
			apperr.Write(w, r, apperr.Unauthorized("The account for this token no longer exists"))
			return
		}

		// Tokens without an issue time cannot be checked against the last
		// password change, so they are never trusted.
		if claims.IssuedAt == nil {
			apperr.Write(w, r, apperr.Unauthorized("Invalid or expired token"))
			return
		}
		if user.ChangedPasswordAfter(claims.IssuedAt.Time) {
			apperr.Write(w, r, apperr.Unauthorized("Password was changed recently, please log in again"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
