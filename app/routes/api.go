// Package routes declares the HTTP surface. Everything is mounted under
// /api/v1; write operations on users and bookings sit behind the guard.
package routes

import (
	"github.com/tempohq/tempo/app/controllers"
	"github.com/tempohq/tempo/app/services"
	"github.com/tempohq/tempo/pkg/ctx"
	"github.com/tempohq/tempo/pkg/router"
)

// Register mounts every API route on r.
func Register(
	r *router.Router,
	auth *services.AuthService,
	authCtl *controllers.AuthController,
	userCtl *controllers.UserController,
	bookingCtl *controllers.BookingController,
) {
	api := r.Group("/api/v1")

	// Public auth routes.
	users := api.Group("/users")
	users.Post("/signup", "users.signup", ctx.Wrap(authCtl.Signup))
	users.Post("/login", "users.login", ctx.Wrap(authCtl.Login))
	users.Get("/logout", "users.logout", ctx.Wrap(authCtl.Logout))

	// Self-service profile routes. Registered before /{id} patterns so the
	// static segment wins.
	profile := users.Group("/profile", auth.Protect)
	profile.Get("/", "users.profile.show", ctx.Wrap(userCtl.Profile))
	profile.Patch("/", "users.profile.update", ctx.Wrap(userCtl.UpdateProfile))
	profile.Delete("/", "users.profile.delete", ctx.Wrap(userCtl.DeleteProfile))
	profile.Post("/verify", "users.profile.verify", ctx.Wrap(authCtl.VerifyProfile))
	profile.Patch("/password", "users.profile.password", ctx.Wrap(authCtl.ChangePassword))

	// User administration.
	admin := users.Group("/", auth.Protect)
	admin.Get("/", "users.index", ctx.Wrap(userCtl.List))
	admin.Post("/", "users.store", ctx.Wrap(userCtl.Create))
	admin.Get("/{id}", "users.show", ctx.Wrap(userCtl.Get))
	admin.Patch("/{id}", "users.update", ctx.Wrap(userCtl.Update))
	admin.Delete("/{id}", "users.delete", ctx.Wrap(userCtl.Delete))

	// Bookings.
	bookings := api.Group("/bookings", auth.Protect)
	bookings.Get("/", "bookings.index", ctx.Wrap(bookingCtl.List))
	bookings.Post("/", "bookings.store", ctx.Wrap(bookingCtl.Create))
	bookings.Get("/{id}", "bookings.show", ctx.Wrap(bookingCtl.Get))
	bookings.Patch("/{id}", "bookings.update", ctx.Wrap(bookingCtl.Update))
	bookings.Delete("/{id}", "bookings.delete", ctx.Wrap(bookingCtl.Delete))
	bookings.Patch("/approve/{id}", "bookings.approve", ctx.Wrap(bookingCtl.Approve))
}
