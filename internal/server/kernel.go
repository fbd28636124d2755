package server

import (
	"net/http"
	"time"

	"github.com/tempohq/tempo/app/controllers"
	"github.com/tempohq/tempo/app/repositories"
	"github.com/tempohq/tempo/app/routes"
	"github.com/tempohq/tempo/app/services"
	"github.com/tempohq/tempo/pkg/cache"
	"github.com/tempohq/tempo/pkg/metrics"
	"github.com/tempohq/tempo/pkg/middleware"
	"github.com/tempohq/tempo/pkg/reqid"
	"github.com/tempohq/tempo/pkg/response"
	"github.com/tempohq/tempo/pkg/router"
	"github.com/tempohq/tempo/pkg/verify"
)

// rateLimit allows this many requests per IP per window.
const (
	rateLimitMax    = 300
	rateLimitWindow = time.Minute
)

// BuildRouter assembles the middleware stack, wires repositories through
// services into controllers, and mounts every route.
func BuildRouter() *router.Router {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.CORSFromConfig()))
	r.Use(middleware.NewLimiter(rateLimitMax, rateLimitWindow).Middleware())

	userRepo := repositories.NewUserRepository()
	bookingRepo := repositories.NewBookingRepository()

	authSvc := services.NewAuthService(userRepo, verify.New(cache.Keyed{}))
	userSvc := services.NewUserService(userRepo)
	bookingSvc := services.NewBookingService(bookingRepo, userRepo)

	routes.Register(r,
		authSvc,
		controllers.NewAuthController(authSvc),
		controllers.NewUserController(userSvc),
		controllers.NewBookingController(bookingSvc),
	)

	r.HandleFunc("/metrics", metrics.Handler())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, "Can't find "+req.URL.Path+" on this server")
	})

	return r
}
