package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"

	// Attendance
	PermissionAttendancePunch   Permission = "attendance.punch"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Leave Management
	PermissionLeaveViewOwn     Permission = "leave.view_own"
	PermissionLeaveCreate      Permission = "leave.create"
	PermissionLeaveViewAll     Permission = "leave.view_all"
	PermissionLeaveApprove     Permission = "leave.approve"
	PermissionLeaveManageTypes Permission = "leave.manage_types"

	// Employee Management
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"

	// Branches and shifts
	PermissionMasterView   Permission = "master.view"
	PermissionMasterManage Permission = "master.manage"

	// Clients (tenants)
	PermissionClientManage Permission = "client.manage"

	// Dashboard
	PermissionDashboardView Permission = "dashboard.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermissionViewOwnProfile,
		PermissionAttendanceViewAll,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManageTypes,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionMasterView,
		PermissionMasterManage,
		PermissionClientManage,
		PermissionDashboardView,
	},
	RoleClientAdmin: {
		PermissionViewOwnProfile,
		PermissionAttendancePunch,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManageTypes,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionMasterView,
		PermissionMasterManage,
		PermissionDashboardView,
	},
	RoleManager: {
		// Manager can approve and view team data
		PermissionViewOwnProfile,
		PermissionAttendancePunch,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionEmployeeViewAll,
		PermissionMasterView,
		PermissionDashboardView,
	},
	RoleEmployee: {
		PermissionViewOwnProfile,
		PermissionAttendancePunch,
		PermissionAttendanceViewOwn,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionMasterView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
