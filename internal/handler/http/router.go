package http

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	AllowedOrigins []string
	LogLevel       slog.Level
	PunchRequests  int
	PunchWindow    time.Duration
}

type Handlers struct {
	Auth       AuthHandler
	Client     ClientHandler
	Master     MasterHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Dashboard  DashboardHandler
}

func NewRouter(cfg RouterConfig, logger *slog.Logger, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(middleware.Metrics)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/attendance", func(r chi.Router) {
				r.With(
					middleware.RequirePermission(user.PermissionAttendancePunch),
					middleware.PunchRateLimit(cfg.PunchRequests, cfg.PunchWindow),
				).Post("/punch", h.Attendance.Punch)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))
					r.Get("/status", h.Attendance.GetStatus)
					r.Get("/my", h.Attendance.GetMyAttendance)
				})
			})

			r.Get("/employees/me", h.Employee.GetMyProfile)

			r.Route("/leave", func(r chi.Router) {
				r.Get("/types", h.Leave.ListTypes)
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/requests", h.Leave.CreateRequest)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/requests/my", h.Leave.ListMyRequests)
			})

			r.Route("/admin", func(r chi.Router) {

				// Super admin only
				r.Route("/clients", func(r chi.Router) {
					r.Get("/{id}", h.Client.Get)
					r.Put("/{id}", h.Client.Update)

					r.Group(func(r chi.Router) {
						r.Use(middleware.SuperAdminOnly)
						r.Get("/", h.Client.List)
						r.Post("/", h.Client.Create)
						r.Delete("/{id}", h.Client.Delete)
					})
				})

				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/attendance", h.Attendance.Report)
				r.With(middleware.RequirePermission(user.PermissionDashboardView)).Get("/dashboard", h.Dashboard.GetDashboard)

				r.Route("/branches", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionMasterView))
					r.Get("/", h.Master.ListBranches)
					r.Get("/{id}", h.Master.GetBranch)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionMasterManage))
						r.Post("/", h.Master.CreateBranch)
						r.Put("/{id}", h.Master.UpdateBranch)
						r.Delete("/{id}", h.Master.DeleteBranch)
					})
				})

				r.Route("/shifts", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionMasterView))
					r.Get("/", h.Master.ListShifts)
					r.Get("/{id}", h.Master.GetShift)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionMasterManage))
						r.Post("/", h.Master.CreateShift)
						r.Put("/{id}", h.Master.UpdateShift)
						r.Delete("/{id}", h.Master.DeleteShift)
					})
				})

				r.Route("/employees", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeViewAll))
					r.Get("/", h.Employee.List)
					r.Get("/{id}", h.Employee.Get)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
						r.Post("/", h.Employee.Create)
						r.Put("/{id}", h.Employee.Update)
						r.Delete("/{id}", h.Employee.Delete)
					})
				})

				r.Route("/leave", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveManageTypes))
						r.Post("/types", h.Leave.CreateType)
						r.Put("/types/{id}", h.Leave.UpdateType)
						r.Delete("/types/{id}", h.Leave.DeleteType)
					})

					r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/requests", h.Leave.ListRequests)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
						r.Post("/requests/{id}/approve", h.Leave.Approve)
						r.Post("/requests/{id}/reject", h.Leave.Reject)
					})
				})
			})
		})
	})
	return r
}
