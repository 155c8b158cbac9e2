package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/client"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	employeeRepo     employee.EmployeeRepository
	attendanceRepo   attendance.AttendanceRepository
	leaveRequestRepo leave.LeaveRequestRepository
	clientRepo       client.ClientRepository
	defaultLocation  *time.Location
	now              func() time.Time
}

func NewDashboardService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	clientRepo client.ClientRepository,
	defaultLocation *time.Location,
) dashboard.DashboardService {
	if defaultLocation == nil {
		defaultLocation = time.UTC
	}
	return &DashboardServiceImpl{
		employeeRepo:     employeeRepo,
		attendanceRepo:   attendanceRepo,
		leaveRequestRepo: leaveRequestRepo,
		clientRepo:       clientRepo,
		defaultLocation:  defaultLocation,
		now:              time.Now,
	}
}

// today returns the current work day of clientID. Branch timezones are
// not consulted, so a client spanning zones is counted in its own zone.
func (s *DashboardServiceImpl) today(ctx context.Context, clientID string) (string, error) {
	loc := s.defaultLocation
	if clientID != "" {
		c, err := s.clientRepo.GetByID(ctx, clientID)
		if err != nil {
			return "", err
		}
		if c.Timezone != nil && *c.Timezone != "" {
			if l, err := time.LoadLocation(*c.Timezone); err == nil {
				loc = l
			}
		}
	}
	return attendance.WorkDay(s.now(), loc).Format(attendance.DateLayout), nil
}

// GetDashboard implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, principal auth.Principal, clientID string) (dashboard.DashboardResponse, error) {
	if err := principal.Require(user.PermissionDashboardView); err != nil {
		return dashboard.DashboardResponse{}, err
	}
	clientID, err := principal.ScopeClient(clientID)
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}

	day, err := s.today(ctx, clientID)
	if err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			return dashboard.DashboardResponse{}, err
		}
		return dashboard.DashboardResponse{}, fmt.Errorf("failed to resolve work day: %w", err)
	}

	resp := dashboard.DashboardResponse{ClientID: clientID, Date: day}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.employeeRepo.Count(gCtx, clientID)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		resp.TotalEmployees = n
		return nil
	})

	g.Go(func() error {
		n, err := s.attendanceRepo.CountPresentEmployees(gCtx, clientID, day)
		if err != nil {
			return fmt.Errorf("failed to count present employees: %w", err)
		}
		resp.PresentToday = n
		return nil
	})

	g.Go(func() error {
		n, err := s.attendanceRepo.CountOpen(gCtx, clientID, day)
		if err != nil {
			return fmt.Errorf("failed to count open records: %w", err)
		}
		resp.CurrentlyPunchedIn = n
		return nil
	})

	g.Go(func() error {
		n, err := s.leaveRequestRepo.CountPending(gCtx, clientID)
		if err != nil {
			return fmt.Errorf("failed to count pending leave requests: %w", err)
		}
		resp.PendingLeaveRequests = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	resp.AbsentToday = max(resp.TotalEmployees-resp.PresentToday, 0)
	return resp, nil
}
