package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/client"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/shift"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	clientService "github.com/cmlabs-hris/attendance-backend-go/internal/service/client"
	dashboardService "github.com/cmlabs-hris/attendance-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/attendance-backend-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
	masterService "github.com/cmlabs-hris/attendance-backend-go/internal/service/master"
	"github.com/go-chi/httplog/v3"
)

// repositories is one storage driver's set of repositories.
type repositories struct {
	transactor   database.Transactor
	user         user.UserRepository
	client       client.ClientRepository
	branch       branch.BranchRepository
	shift        shift.ShiftRepository
	employee     employee.EmployeeRepository
	attendance   attendance.AttendanceRepository
	leaveType    leave.LeaveTypeRepository
	leaveRequest leave.LeaveRequestRepository
	close        func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	if err != nil {
		return fmt.Errorf("create jwt service: %w", err)
	}

	location := cfg.Location()
	authService := serviceAuth.NewAuthService(repos.transactor, repos.user, repos.client, JWTService)
	attendanceSvc := attendanceService.NewAttendanceService(repos.attendance, repos.employee, repos.branch, repos.client, location)

	if cfg.Bootstrap.AdminEmail != "" {
		if err := authService.EnsureSuperAdmin(ctx, cfg.Bootstrap.AdminName, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
			return fmt.Errorf("bootstrap super admin: %w", err)
		}
	}

	handlers := appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authService),
		Client:     appHTTP.NewClientHandler(clientService.NewClientService(repos.client)),
		Master:     appHTTP.NewMasterHandler(masterService.NewMasterService(repos.client, repos.branch, repos.shift)),
		Employee:   appHTTP.NewEmployeeHandler(employeeService.NewEmployeeService(repos.transactor, repos.employee, repos.user, repos.client, repos.branch, repos.shift)),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveService.NewLeaveService(repos.leaveType, repos.leaveRequest, repos.employee, repos.client)),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardService.NewDashboardService(repos.employee, repos.attendance, repos.leaveRequest, repos.client, location)),
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       level,
		PunchRequests:  cfg.RateLimit.PunchRequests,
		PunchWindow:    cfg.RateLimit.PunchWindow,
	}, logger, JWTService, handlers)

	scheduler := cron.NewScheduler(logger)
	jobs := cron.NewAttendanceJobs(repos.attendance)
	scheduler.AddJob("refresh_open_records", cfg.Attendance.OpenRecordsInterval, jobs.RefreshOpenRecords)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "storage", cfg.Database.Driver)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.Database.Driver {
	case config.StorageDriverMemory:
		slog.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return repositories{
			transactor:   memory.NewTransactor(),
			user:         memory.NewUserRepository(store),
			client:       memory.NewClientRepository(store),
			branch:       memory.NewBranchRepository(store),
			shift:        memory.NewShiftRepository(store),
			employee:     memory.NewEmployeeRepository(store),
			attendance:   memory.NewAttendanceRepository(store),
			leaveType:    memory.NewLeaveTypeRepository(store),
			leaveRequest: memory.NewLeaveRequestRepository(store),
			close:        func() {},
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns: int32(cfg.Database.MaxConns),
			MinConns: int32(cfg.Database.MinConns),
		})
		if err != nil {
			return repositories{}, fmt.Errorf("connect to database: %w", err)
		}
		if cfg.Database.Migrate {
			if err := db.Migrate(ctx); err != nil {
				db.Close()
				return repositories{}, fmt.Errorf("migrate database: %w", err)
			}
		}
		return repositories{
			transactor:   postgresql.NewTransactor(db),
			user:         postgresql.NewUserRepository(db),
			client:       postgresql.NewClientRepository(db),
			branch:       postgresql.NewBranchRepository(db),
			shift:        postgresql.NewShiftRepository(db),
			employee:     postgresql.NewEmployeeRepository(db),
			attendance:   postgresql.NewAttendanceRepository(db),
			leaveType:    postgresql.NewLeaveTypeRepository(db),
			leaveRequest: postgresql.NewLeaveRequestRepository(db),
			close:        db.Close,
		}, nil
	}
}
