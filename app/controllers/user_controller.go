package controllers

import (
	"github.com/tempohq/tempo/app/services"
	"github.com/tempohq/tempo/pkg/apperr"
	"github.com/tempohq/tempo/pkg/ctx"
	"github.com/tempohq/tempo/pkg/resource"
)

// UserController handles the user CRUD and self-service profile routes.
type UserController struct {
	users *services.UserService
}

// NewUserController wires the controller to its service.
func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// List handles GET /users.
func (u *UserController) List(c *ctx.Context) {
	q, err := c.ListQuery()
	if err != nil {
		c.AppError(err)
		return
	}

	users, page, err := u.users.List(c.Context(), q)
	if err != nil {
		c.AppError(err)
		return
	}
	c.Paginated(resource.CollectionOf(&UserResource{}, users), page)
}

// Get handles GET /users/{id}.
func (u *UserController) Get(c *ctx.Context) {
	user, err := u.users.Get(c.Context(), c.Param("id"))
	if err != nil {
		c.AppError(err)
		return
	}
	c.Success(resource.New(&UserResource{}, user))
}

// Create handles POST /users.
func (u *UserController) Create(c *ctx.Context) {
	var in services.CreateUserInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := u.users.Create(c.Context(), in)
	if err != nil {
		c.AppError(err)
		return
	}
	c.Created(resource.New(&UserResource{}, user))
}

// Update handles PATCH /users/{id}.
func (u *UserController) Update(c *ctx.Context) {
	var in services.UpdateUserInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := u.users.Update(c.Context(), c.Param("id"), in)
	if err != nil {
		c.AppError(err)
		return
	}
	c.Success(resource.New(&UserResource{}, user))
}

// Delete handles DELETE /users/{id}.
func (u *UserController) Delete(c *ctx.Context) {
	if err := u.users.Delete(c.Context(), c.Param("id")); err != nil {
		c.AppError(err)
		return
	}
	c.NoContent()
}

// ─── Self-service profile routes ──────────────────────────────────────────────

// Profile handles GET /users/profile.
func (u *UserController) Profile(c *ctx.Context) {
	user, ok := services.CurrentUser(c.Context())
	if !ok {
		c.AppError(apperr.Unauthorized("You are not logged in"))
		return
	}
	c.Success(resource.New(&UserResource{}, user))
}

// UpdateProfile handles PATCH /users/profile.
func (u *UserController) UpdateProfile(c *ctx.Context) {
	user, ok := services.CurrentUser(c.Context())
	if !ok {
		c.AppError(apperr.Unauthorized("You are not logged in"))
		return
	}

	var in services.UpdateUserInput
	if !c.BindJSON(&in) {
		return
	}

	updated, err := u.users.UpdateProfile(c.Context(), user, in)
	if err != nil {
		c.AppError(err)
		return
	}
	c.Success(resource.New(&UserResource{}, updated))
}

// DeleteProfile handles DELETE /users/profile.
func (u *UserController) DeleteProfile(c *ctx.Context) {
	user, ok := services.CurrentUser(c.Context())
	if !ok {
		c.AppError(apperr.Unauthorized("You are not logged in"))
		return
	}

	if err := u.users.Delete(c.Context(), user.ID.Hex()); err != nil {
		c.AppError(err)
		return
	}
	c.NoContent()
}
