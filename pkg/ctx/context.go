// Package ctx provides a request context wrapper for handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helpers for path params, query parsing,
// body binding, cookies, and envelope responses:
//
//	func GetBooking(c *ctx.Context) {
//	    id := c.Param("id")
//	    ...
//	    c.Success(booking)
//	}
//
//	router.Get("/bookings/{id}", "bookings.show", ctx.Wrap(GetBooking))
package ctx

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/tempohq/tempo/pkg/apperr"
	"github.com/tempohq/tempo/pkg/bind"
	"github.com/tempohq/tempo/pkg/listquery"
	"github.com/tempohq/tempo/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/users/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// QueryValues returns the full parsed query string.
func (c *Context) QueryValues() url.Values {
	return c.R.URL.Query()
}

// ListQuery parses the list-endpoint parameters (filter, search, group,
// sort, page, limit) out of the query string.
func (c *Context) ListQuery() (listquery.Query, error) {
	return listquery.Parse(c.R.URL.Query())
}

// Header returns the value of a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// Cookie returns the value of a named cookie.
func (c *Context) Cookie(name string) (string, error) {
	cookie, err := c.R.Cookie(name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ClientIP returns the real client IP, respecting X-Forwarded-For.
func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := c.R.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	ip := c.R.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// ─── Binding ─────────────────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and validates it. On failure the
// error response is written and false is returned; the handler should return
// immediately.
//
//	var input SignupInput
//	if !c.BindJSON(&input) {
//	    return // response already sent
//	}
func (c *Context) BindJSON(dest any) bool {
	if err := bind.JSON(c.W, c.R, dest); err != nil {
		c.AppError(err)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// SetCookie sets a cookie on the response.
func (c *Context) SetCookie(cookie *http.Cookie) {
	http.SetCookie(c.W, cookie)
}

// Success sends a 200 JSON envelope: {"status":200,"data":...}
func (c *Context) Success(data any) {
	response.Success(c.W, data)
}

// Created sends a 201 JSON envelope.
func (c *Context) Created(data any) {
	response.Created(c.W, data)
}

// NoContent sends a 204 with an empty body.
func (c *Context) NoContent() {
	response.NoContent(c.W)
}

// Paginated sends a 200 envelope with items plus the effective page window.
func (c *Context) Paginated(data any, p listquery.Pagination) {
	response.Paginated(c.W, data, p)
}

// AppError funnels any error through the central mapper. This is the only
// way handlers report failures.
func (c *Context) AppError(err error) {
	apperr.Write(c.W, c.R, err)
}
