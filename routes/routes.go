package routes

import (
	"log/slog"

	"food-share-api/authz"
	"food-share-api/handlers"
	"food-share-api/middleware"
	"food-share-api/models"
	"food-share-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options wires the router to its collaborators.
type Options struct {
	Handler    *handlers.Handler
	Sessions   middleware.SessionResolver
	Authorizer middleware.RouteAuthorizer
	Machine    *statemachine.Machine
	UploadDir  string
	Logger     *slog.Logger
}

// NewRouter builds the engine with recovery, request logging and session loading.
func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.LoadSession(opts.Sessions, handlers.SessionCookie, opts.Logger))

	SetupRoutes(r, opts)
	return r
}

var getPost = []string{"GET", "POST"}

func SetupRoutes(r *gin.Engine, opts Options) {
	h := opts.Handler
	gate := func(required string) gin.HandlerFunc {
		return middleware.RoleRequired(opts.Authorizer, required, opts.Logger)
	}

	// ── Public routes ──────────────────────────────────────────────
	r.GET("/", h.Home)
	r.GET("/health", h.Health)
	r.GET("/state-machine", h.StateMachineInfo)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/uploads", opts.UploadDir)

	r.GET("/register", h.RegisterForm)
	r.POST("/register", h.Register)
	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/recover", h.RecoverForm)
	r.POST("/recover", h.Recover)
	r.Match(getPost, "/logout", h.Logout)

	// ── Any signed-in user ─────────────────────────────────────────
	r.GET("/posts/:id/history", gate(authz.RoleAny), h.PostHistory)

	// ── Donor routes ───────────────────────────────────────────────
	donor := r.Group("/", gate(string(models.RoleDonor)))
	{
		donor.GET("/donor", h.DonorDashboard)
		donor.GET("/add_food", h.AddFoodForm)
		donor.POST("/add_food", h.AddFood)
	}

	// ── Volunteer routes ───────────────────────────────────────────
	volunteer := r.Group("/", gate(string(models.RoleVolunteer)))
	{
		volunteer.GET("/volunteer", h.VolunteerDashboard)
		volunteer.Match(getPost, "/accept/:id", h.AcceptPost)
		if opts.Machine.Supports(statemachine.ActionCollected) {
			volunteer.Match(getPost, "/collected/:id", h.MarkCollected)
		}
	}

	// ── Receiver routes ────────────────────────────────────────────
	if opts.Machine.Supports(statemachine.ActionBook) {
		receiver := r.Group("/", gate(string(models.RoleReceiver)))
		{
			receiver.GET("/receiver", h.ReceiverDashboard)
			receiver.Match(getPost, "/book/:id", h.BookPost)
		}
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/", gate(string(models.RoleAdmin)))
	{
		admin.GET("/admin", h.AdminDashboard)
	}
}
