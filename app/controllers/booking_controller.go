package controllers

import (
	"github.com/tempohq/tempo/app/services"
	"github.com/tempohq/tempo/pkg/apperr"
	"github.com/tempohq/tempo/pkg/ctx"
	"github.com/tempohq/tempo/pkg/resource"
)

// BookingController handles the booking CRUD and approve routes.
type BookingController struct {
	bookings *services.BookingService
}

// NewBookingController wires the controller to its service.
func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

// List handles GET /bookings.
func (b *BookingController) List(c *ctx.Context) {
	q, err := c.ListQuery()
	if err != nil {
		c.AppError(err)
		return
	}

	bookings, page, err := b.bookings.List(c.Context(), q)
	if err != nil {
		c.AppError(err)
		return
	}
	c.Paginated(resource.CollectionOf(&BookingResource{}, bookings), page)
}

// Get handles GET /bookings/{id}.
func (b *BookingController) Get(c *ctx.Context) {
	booking, err := b.bookings.Get(c.Context(), c.Param("id"))
	if err != nil {
		c.AppError(err)
		return
	}
	c.Success(resource.New(&BookingResource{}, booking))
}

// Create handles POST /bookings.
func (b *BookingController) Create(c *ctx.Context) {
	var in services.CreateBookingInput
	if !c.BindJSON(&in) {
		return
	}

	booking, err := b.bookings.Create(c.Context(), in)
	if err != nil {
		c.AppError(err)
		return
	}
	c.Created(resource.New(&BookingResource{}, booking))
}

// Update handles PATCH /bookings/{id}. The approval fields are not in the
// allow-list, so they survive any request body untouched.
func (b *BookingController) Update(c *ctx.Context) {
	var in services.UpdateBookingInput
	if !c.BindJSON(&in) {
		return
	}

	booking, err := b.bookings.Update(c.Context(), c.Param("id"), in)
	if err != nil {
		c.AppError(err)
		return
	}
	c.Success(resource.New(&BookingResource{}, booking))
}

// Delete handles DELETE /bookings/{id}. Bookings are removed for real,
// unlike users.
func (b *BookingController) Delete(c *ctx.Context) {
	if err := b.bookings.Delete(c.Context(), c.Param("id")); err != nil {
		c.AppError(err)
		return
	}
	c.NoContent()
}

// Approve handles PATCH /bookings/approve/{id}: stamps the acting user as
// approver and marks the booking payed and completed.
func (b *BookingController) Approve(c *ctx.Context) {
	user, ok := services.CurrentUser(c.Context())
	if !ok {
		c.AppError(apperr.Unauthorized("You are not logged in"))
		return
	}

	booking, err := b.bookings.Approve(c.Context(), c.Param("id"), user)
	if err != nil {
		c.AppError(err)
		return
	}
	c.Success(resource.New(&BookingResource{}, booking))
}
