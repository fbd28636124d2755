package controllers

import (
	"net/http"
	"time"

	"github.com/tempohq/tempo/app/services"
	"github.com/tempohq/tempo/config"
	"github.com/tempohq/tempo/pkg/apperr"
	"github.com/tempohq/tempo/pkg/ctx"
	"github.com/tempohq/tempo/pkg/logger"
	"github.com/tempohq/tempo/pkg/resource"
)

// AuthController handles signup, login, logout, password change, and
// profile verification.
type AuthController struct {
	auth *services.AuthService
}

// NewAuthController wires the controller to its service.
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// tokenCookie builds the jwt cookie mirroring the issued token's lifetime.
func tokenCookie(token string, expiry time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     services.TokenCookie,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
}

// Signup handles POST /users/signup.
func (a *AuthController) Signup(c *ctx.Context) {
	var in services.SignupInput
	if !c.BindJSON(&in) {
		return
	}

	user, token, expiry, err := a.auth.Signup(c.Context(), in)
	if err != nil {
		c.AppError(err)
		return
	}

	c.SetCookie(tokenCookie(token, expiry))
	c.Created(resource.Map{
		"user":  resource.New(&UserResource{}, user),
		"token": token,
	})
}

// Login handles POST /users/login.
func (a *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}

	user, token, expiry, err := a.auth.Login(c.Context(), in)
	if err != nil {
		c.AppError(err)
		return
	}

	c.SetCookie(tokenCookie(token, expiry))
	c.Success(resource.Map{
		"user":  resource.New(&UserResource{}, user),
		"token": token,
	})
}

// Logout handles GET /users/logout. Tokens are stateless, so logout just
// clears the cookie; a bearer token stays valid until natural expiry.
func (a *AuthController) Logout(c *ctx.Context) {
	c.SetCookie(&http.Cookie{
		Name:     services.TokenCookie,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	c.Success(resource.Map{"message": "Logged out"})
}

// ChangePassword handles PATCH /users/profile/password.
func (a *AuthController) ChangePassword(c *ctx.Context) {
	user, ok := services.CurrentUser(c.Context())
	if !ok {
		c.AppError(apperr.Unauthorized("You are not logged in"))
		return
	}

	var in services.ChangePasswordInput
	if !c.BindJSON(&in) {
		return
	}

	token, expiry, err := a.auth.ChangePassword(c.Context(), user, in)
	if err != nil {
		c.AppError(err)
		return
	}

	c.SetCookie(tokenCookie(token, expiry))
	c.Success(resource.Map{"token": token})
}

// verifyInput is the profile verification body; an empty code requests a
// fresh one.
type verifyInput struct {
	Code string `json:"code" validate:"nullable,digits=6"`
}

// VerifyProfile handles POST /users/profile/verify.
func (a *AuthController) VerifyProfile(c *ctx.Context) {
	user, ok := services.CurrentUser(c.Context())
	if !ok {
		c.AppError(apperr.Unauthorized("You are not logged in"))
		return
	}

	var in verifyInput
	if !c.BindJSON(&in) {
		return
	}

	issued, err := a.auth.VerifyProfile(c.Context(), user, in.Code)
	if err != nil {
		c.AppError(err)
		return
	}

	if issued != "" {
		// No delivery channel is wired; surface the code in dev logs only.
		if !config.IsProduction() {
			logger.WithCtx(c.Context()).Info("verification code issued",
				"user_id", user.ID.Hex(), "code", issued)
		}
		c.Success(resource.Map{"message": "Verification code issued"})
		return
	}

	c.Success(resource.New(&UserResource{}, user))
}
