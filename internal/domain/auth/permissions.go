package auth

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

const (
	PermLeaveRead    = "leave.read"
	PermLeaveWrite   = "leave.write"
	PermLeaveApprove = "leave.approve"
	PermLeaveAdmin   = "leave.admin"
	PermUsersRead    = "users.read"
	PermUsersWrite   = "users.write"
	PermReportsRead  = "reports.read"
	PermJobsRun      = "jobs.run"
)

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermLeaveRead,
		PermLeaveWrite,
		PermUsersRead,
	},
	RoleManager: {
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermUsersRead,
		PermReportsRead,
	},
	RoleHR: {
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermUsersRead,
		PermUsersWrite,
		PermReportsRead,
	},
	RoleAdmin: {
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermLeaveAdmin,
		PermUsersRead,
		PermUsersWrite,
		PermReportsRead,
		PermJobsRun,
	},
}

func ValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleManager, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// HasPermission checks the static role → permission table.
func HasPermission(role, permission string) bool {
	for _, granted := range RolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}
