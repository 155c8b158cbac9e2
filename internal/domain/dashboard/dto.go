package dashboard

// DashboardResponse summarises one client (or every client for a super admin) for today.
type DashboardResponse struct {
	ClientID             string `json:"client_id,omitempty"`
	Date                 string `json:"date"`
	TotalEmployees       int64  `json:"total_employees"`
	PresentToday         int64  `json:"present_today"`
	CurrentlyPunchedIn   int64  `json:"currently_punched_in"`
	AbsentToday          int64  `json:"absent_today"`
	PendingLeaveRequests int64  `json:"pending_leave_requests"`
}
