package domain

// Resource names a protected area of the API.
type Resource string

const (
	ResourceColleges      Resource = "colleges"
	ResourceStudents      Resource = "students"
	ResourceEvents        Resource = "events"
	ResourceRegistrations Resource = "registrations"
	ResourceAttendance    Resource = "attendance"
	ResourceFeedback      Resource = "feedback"
	ResourceReports       Resource = "reports"
	ResourceProfile       Resource = "profile"
	ResourceAdmins        Resource = "admins"
)

// Action is an operation on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

type roleSet map[Role]struct{}

func roles(rs ...Role) roleSet {
	s := make(roleSet, len(rs))
	for _, r := range rs {
		s[r] = struct{}{}
	}
	return s
}

var (
	anyAdmin  = roles(RoleAdmin, RoleSuperAdmin)
	superOnly = roles(RoleSuperAdmin)
)

// permissions maps resource x action to the roles allowed to perform it.
// Pairs missing from the table are denied.
var permissions = map[Resource]map[Action]roleSet{
	ResourceColleges:      {ActionRead: anyAdmin, ActionWrite: anyAdmin, ActionDelete: anyAdmin},
	ResourceStudents:      {ActionRead: anyAdmin, ActionWrite: anyAdmin, ActionDelete: anyAdmin},
	ResourceEvents:        {ActionRead: anyAdmin, ActionWrite: anyAdmin, ActionDelete: anyAdmin},
	ResourceRegistrations: {ActionRead: anyAdmin, ActionWrite: anyAdmin, ActionDelete: anyAdmin},
	ResourceAttendance:    {ActionRead: anyAdmin, ActionWrite: anyAdmin, ActionDelete: anyAdmin},
	ResourceFeedback:      {ActionRead: anyAdmin, ActionWrite: anyAdmin, ActionDelete: anyAdmin},
	ResourceReports:       {ActionRead: anyAdmin},
	ResourceProfile:       {ActionRead: anyAdmin, ActionWrite: anyAdmin},
	ResourceAdmins:        {ActionRead: superOnly, ActionManage: superOnly},
}

// Authorize returns ErrForbidden unless role may perform action on resource.
func Authorize(role Role, resource Resource, action Action) error {
	if !role.Valid() {
		return ErrForbidden
	}
	allowed, ok := permissions[resource][action]
	if !ok {
		return ErrForbidden
	}
	if _, ok := allowed[role]; !ok {
		return ErrForbidden
	}
	return nil
}
