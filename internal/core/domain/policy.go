package domain

// Action names an operation subject to authorization.
type Action string

const (
	ActionViewProject     Action = "project:view"
	ActionCreateProject   Action = "project:create"
	ActionTransitionState Action = "project:set_status"
	ActionAnnotateProject Action = "project:annotate"
	ActionManageUsers     Action = "users:manage"
	ActionViewAnalytics   Action = "analytics:view"
)

// adminOnly lists actions that require the admin role regardless of ownership.
var adminOnly = map[Action]bool{
	ActionTransitionState: true,
	ActionAnnotateProject: true,
	ActionManageUsers:     true,
	ActionViewAnalytics:   true,
}

// Authorize is the single authorization policy: given the caller's role and
// id, an action, and the owning user of the target resource (empty when the
// resource has no owner), it returns nil to allow or ErrForbidden to deny.
// Every handler and service goes through this function instead of inlining
// role checks.
func Authorize(role, subjectID string, action Action, ownerID string) error {
	if role == RoleAdmin {
		return nil
	}
	if adminOnly[action] {
		return ErrForbidden
	}
	switch action {
	case ActionCreateProject:
		return nil
	case ActionViewProject:
		if ownerID != "" && ownerID == subjectID {
			return nil
		}
		return ErrForbidden
	}
	return ErrForbidden
}
