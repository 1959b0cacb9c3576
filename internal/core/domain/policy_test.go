package domain

import (
	"errors"
	"testing"
)

func TestAuthorize_AdminBypassesEverything(t *testing.T) {
	actions := []Action{
		ActionViewProject, ActionCreateProject, ActionTransitionState,
		ActionAnnotateProject, ActionManageUsers, ActionViewAnalytics,
	}
	for _, a := range actions {
		if err := Authorize(RoleAdmin, "a-1", a, "someone-else"); err != nil {
			t.Errorf("admin denied %q: %v", a, err)
		}
	}
}

func TestAuthorize_AdminOnlyActionsDenyUsers(t *testing.T) {
	actions := []Action{
		ActionTransitionState, ActionAnnotateProject,
		ActionManageUsers, ActionViewAnalytics,
	}
	for _, a := range actions {
		// Even owning the resource does not grant an admin-only action.
		if err := Authorize(RoleUser, "u-1", a, "u-1"); !errors.Is(err, ErrForbidden) {
			t.Errorf("user allowed %q: %v", a, err)
		}
	}
}

func TestAuthorize_OwnerMayViewOwnProject(t *testing.T) {
	if err := Authorize(RoleUser, "u-1", ActionViewProject, "u-1"); err != nil {
		t.Fatalf("owner denied: %v", err)
	}
	if err := Authorize(RoleUser, "u-1", ActionViewProject, "u-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner allowed: %v", err)
	}
}

func TestAuthorize_AnyUserMayCreateProjects(t *testing.T) {
	if err := Authorize(RoleUser, "u-1", ActionCreateProject, ""); err != nil {
		t.Fatalf("create denied: %v", err)
	}
}

func TestAuthorize_UnknownActionDenied(t *testing.T) {
	if err := Authorize(RoleUser, "u-1", Action("bogus"), ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("unknown action must deny: %v", err)
	}
}
