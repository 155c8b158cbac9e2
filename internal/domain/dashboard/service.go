package dashboard

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
)

type DashboardService interface {
	GetDashboard(ctx context.Context, principal auth.Principal, clientID string) (DashboardResponse, error)
}
