package models

import "github.com/google/uuid"

// Viewer is the authenticated principal a request acts as. Role-dependent
// capabilities hang off this type so handlers and services never re-derive
// them from scattered is_admin checks.
type Viewer struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	IsAdmin  bool      `json:"is_admin"`
}

func AdminViewer(id uuid.UUID, username string) Viewer {
	return Viewer{ID: id, Username: username, IsAdmin: true}
}

func RegularViewer(id uuid.UUID, username string) Viewer {
	return Viewer{ID: id, Username: username, IsAdmin: false}
}

// CanCompleteDirectly reports whether the viewer may flip a task's completed
// flag without going through the request/approval flow.
func (v Viewer) CanCompleteDirectly() bool {
	return v.IsAdmin
}

// CanManageTasks covers editing, deleting, assigning and changing visibility.
func (v Viewer) CanManageTasks() bool {
	return v.IsAdmin
}

func (v Viewer) CanManageUsers() bool {
	return v.IsAdmin
}

func (v Viewer) CanResolveRequests() bool {
	return v.IsAdmin
}

// CanChangeRoleOf rejects self-modification even for admins; an admin may
// never change their own role.
func (v Viewer) CanChangeRoleOf(target User) bool {
	return v.IsAdmin && v.ID != target.ID
}

// CanDeleteUser rejects self-deletion even for admins.
func (v Viewer) CanDeleteUser(target User) bool {
	return v.IsAdmin && v.ID != target.ID
}
