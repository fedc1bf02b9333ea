package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"campusevents/internal/delivery/http/controllers"
	h "campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

// APIPrefix is prepended to every route except /health, /metrics and /swagger/.
const APIPrefix = "/api"

// MetricsProvider collects request metrics and serves them.
type MetricsProvider interface {
	middleware.RequestObserver
	middleware.RateLimitRecorder
	Handler() http.Handler
}

// Controllers groups the handlers the router mounts.
type Controllers struct {
	Auth         *controllers.AuthController
	College      *controllers.CollegeController
	Student      *controllers.StudentController
	Event        *controllers.EventController
	Registration *controllers.RegistrationController
	Attendance   *controllers.AttendanceController
	Feedback     *controllers.FeedbackController
	Report       *controllers.ReportController
	Health       *controllers.HealthController
}

// RouterConfig holds the cross-cutting dependencies of the router.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	Limiter        domain.RateLimitStore
	APILimit       middleware.RateLimitConfig
	AuthLimit      middleware.RateLimitConfig
	Metrics        MetricsProvider
	CORSOrigins    []string
	RequestTimeout time.Duration
}

type router struct {
	mux *http.ServeMux
	cfg RouterConfig
}

// NewRouter initializes the HTTP router with all application routes and wraps
// it in the global middleware stack.
func NewRouter(cfg RouterConfig, c Controllers) http.Handler {
	rt := &router{mux: http.NewServeMux(), cfg: cfg}

	rt.authRoutes(c.Auth)
	rt.crud("/colleges", domain.ResourceColleges, crudHandlers{
		list: c.College.List, create: c.College.Create,
		get: c.College.Get, update: c.College.Update, remove: c.College.Delete,
	})
	rt.crud("/students", domain.ResourceStudents, crudHandlers{
		list: c.Student.List, create: c.Student.Create,
		get: c.Student.Get, update: c.Student.Update, remove: c.Student.Delete,
	})
	rt.crud("/events", domain.ResourceEvents, crudHandlers{
		list: c.Event.List, create: c.Event.Create,
		get: c.Event.Get, update: c.Event.Update, remove: c.Event.Delete,
	})
	rt.protected("GET /events/{id}/stats", domain.ResourceEvents, domain.ActionRead, c.Event.Stats)
	rt.crud("/registrations", domain.ResourceRegistrations, crudHandlers{
		list: c.Registration.List, create: c.Registration.Create,
		get: c.Registration.Get, update: c.Registration.UpdateStatus, remove: c.Registration.Delete,
	})
	rt.crud("/attendance", domain.ResourceAttendance, crudHandlers{
		list: c.Attendance.List, create: c.Attendance.Create,
		get: c.Attendance.Get, update: c.Attendance.Update, remove: c.Attendance.Delete,
	})
	rt.crud("/feedback", domain.ResourceFeedback, crudHandlers{
		list: c.Feedback.List, create: c.Feedback.Create,
		get: c.Feedback.Get, update: c.Feedback.Update, remove: c.Feedback.Delete,
	})
	rt.reportRoutes(c.Report)

	// Operational
	rt.mux.HandleFunc("GET /health", c.Health.Health)
	if cfg.Metrics != nil {
		rt.mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}
	rt.mux.Handle("/swagger/", httpSwagger.WrapHandler)
	rt.mux.HandleFunc("/", notFound)

	var handler http.Handler = rt.mux
	if cfg.Metrics != nil {
		handler = middleware.Metrics(cfg.Metrics, handler)
	}
	handler = middleware.Timeout(cfg.RequestTimeout, handler)
	handler = middleware.Recover(cfg.Logger, handler)
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	return middleware.CORS(cfg.CORSOrigins, handler)
}

func (rt *router) authRoutes(a *controllers.AuthController) {
	// Public, under the stricter auth limiter
	rt.public("POST /auth/register", a.Register)
	rt.public("POST /auth/login", a.Login)
	rt.public("POST /auth/refresh", a.Refresh)
	rt.public("POST /auth/forgot-password", a.ForgotPassword)
	rt.public("POST /auth/reset-password", a.ResetPassword)

	// Any authenticated admin
	rt.protected("GET /auth/profile", domain.ResourceProfile, domain.ActionRead, a.GetProfile)
	rt.protected("PUT /auth/profile", domain.ResourceProfile, domain.ActionWrite, a.UpdateProfile)
	rt.protected("POST /auth/change-password", domain.ResourceProfile, domain.ActionWrite, a.ChangePassword)
	rt.protected("GET /auth/validate", domain.ResourceProfile, domain.ActionRead, a.Validate)
	rt.protected("POST /auth/logout", domain.ResourceProfile, domain.ActionRead, a.Logout)

	// Super admin only
	rt.protected("GET /auth/admins", domain.ResourceAdmins, domain.ActionRead, a.ListAdmins)
	rt.protected("POST /auth/admins/{id}/activate", domain.ResourceAdmins, domain.ActionManage, a.ActivateAdmin)
	rt.protected("POST /auth/admins/{id}/deactivate", domain.ResourceAdmins, domain.ActionManage, a.DeactivateAdmin)
}

func (rt *router) reportRoutes(rc *controllers.ReportController) {
	read := func(pattern string, fn http.HandlerFunc) {
		rt.protected(pattern, domain.ResourceReports, domain.ActionRead, fn)
	}
	read("GET /reports/event-popularity", rc.EventPopularity)
	read("GET /reports/student-participation", rc.StudentParticipation)
	read("GET /reports/top-students", rc.TopStudents)
	read("GET /reports/attendance/{event_id}", rc.Attendance)
	read("GET /reports/feedback/{event_id}", rc.Feedback)
	read("GET /reports/colleges", rc.Colleges)
	read("GET /reports/dashboard", rc.Dashboard)
	read("GET /reports/filter", rc.Filter)
}

type crudHandlers struct {
	list, create, get, update, remove http.HandlerFunc
}

func (rt *router) crud(base string, res domain.Resource, hs crudHandlers) {
	rt.protected("GET "+base, res, domain.ActionRead, hs.list)
	rt.protected("POST "+base, res, domain.ActionWrite, hs.create)
	rt.protected("GET "+base+"/{id}", res, domain.ActionRead, hs.get)
	rt.protected("PUT "+base+"/{id}", res, domain.ActionWrite, hs.update)
	rt.protected("DELETE "+base+"/{id}", res, domain.ActionDelete, hs.remove)
}

// public mounts an unauthenticated route under the auth rate limit.
func (rt *router) public(pattern string, fn http.HandlerFunc) {
	rt.handle(pattern, middleware.Chain(fn, rt.limit(rt.cfg.AuthLimit)))
}

// protected mounts a route that needs a valid access token and the given permission.
// The general rate limit runs after authentication so it keys by admin.
func (rt *router) protected(pattern string, res domain.Resource, act domain.Action, fn http.HandlerFunc) {
	rt.handle(pattern, middleware.Chain(fn,
		middleware.RequireAuth(rt.cfg.Verifier),
		rt.limit(rt.cfg.APILimit),
		middleware.RequirePermission(res, act),
	))
}

func (rt *router) limit(cfg middleware.RateLimitConfig) middleware.Middleware {
	if rt.cfg.Limiter == nil || cfg.Limit <= 0 {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}
	return middleware.RateLimit(rt.cfg.Limiter, cfg, rt.cfg.Metrics, rt.cfg.Logger)
}

func (rt *router) handle(pattern string, fn http.HandlerFunc) {
	method, path, _ := strings.Cut(pattern, " ")
	rt.mux.HandleFunc(method+" "+APIPrefix+path, fn)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	h.WriteJSONError(w, http.StatusNotFound, "route not found", nil)
}
