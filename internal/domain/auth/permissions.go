package auth

import "context"

const (
	RoleAdmin      = "admin"
	RoleEvaluator  = "evaluador"
	RoleSupervisor = "encargado"
)

const (
	PermPeopleRead         = "people.read"
	PermPeopleWrite        = "people.write"
	PermUsersAdmin         = "users.admin"
	PermEvaluationsSubmit  = "evaluations.submit"
	PermEvaluationsRead    = "evaluations.read"
	PermEvaluationsExport  = "evaluations.export"
	PermNotificationsRead  = "notifications.read"
	PermNotificationsWrite = "notifications.write"
	PermAuditRead          = "audit.read"
)

var DefaultPermissions = []string{
	PermPeopleRead,
	PermPeopleWrite,
	PermUsersAdmin,
	PermEvaluationsSubmit,
	PermEvaluationsRead,
	PermEvaluationsExport,
	PermNotificationsRead,
	PermNotificationsWrite,
	PermAuditRead,
}

var RoleDescriptions = map[string]string{
	RoleAdmin:      "Full administration of people, users and evaluations",
	RoleEvaluator:  "Reviews supervisors and reads evaluation reports",
	RoleSupervisor: "Submits evaluations for assigned employees",
}

var RolePermissions = map[string][]string{
	RoleAdmin: DefaultPermissions,
	RoleEvaluator: {
		PermPeopleRead,
		PermEvaluationsRead,
		PermEvaluationsExport,
		PermNotificationsRead,
	},
	RoleSupervisor: {
		PermPeopleRead,
		PermEvaluationsSubmit,
		PermEvaluationsRead,
		PermNotificationsRead,
		PermNotificationsWrite,
	},
}

// StaticPermissions answers permission checks from RolePermissions.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(ctx context.Context, role, permission string) (bool, error) {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true, nil
		}
	}
	return false, nil
}
