package models

import "github.com/google/uuid"

// VisibleTo reports whether the viewer may see the task at all. Admins see
// everything. A regular viewer sees a task assigned to them regardless of its
// visibility class; a task assigned to someone else is never shown. Otherwise
// "all" tasks are shown and "private" tasks only to their creator. The server
// is authoritative here; this check guards every read path.
func (t Task) VisibleTo(v Viewer) bool {
	if v.IsAdmin {
		return true
	}
	if t.AssignedTo != nil {
		return *t.AssignedTo == v.ID
	}
	switch t.Visibility {
	case VisibilityAll:
		return true
	case VisibilityPrivate:
		return t.CreatorID == v.ID
	default:
		return false
	}
}

// VisibleSubset keeps the tasks the viewer may see, preserving input order.
func VisibleSubset(tasks []Task, v Viewer) []Task {
	visible := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.VisibleTo(v) {
			visible = append(visible, t)
		}
	}
	return visible
}

// FilterKind selects the admin display filter applied on top of the viewer's
// (already total) view. Filters narrow what is rendered; they never grant or
// remove access.
type FilterKind string

const (
	FilterAll         FilterKind = "all"
	FilterAdminsOnly  FilterKind = "admins"
	FilterPrivateOnly FilterKind = "private"
	FilterAssignedTo  FilterKind = "assigned_to"
)

type TaskFilter struct {
	Kind   FilterKind
	UserID uuid.UUID // set only for FilterAssignedTo
}

func (f TaskFilter) Matches(t Task) bool {
	switch f.Kind {
	case FilterAdminsOnly:
		return t.Visibility == VisibilityAdmins
	case FilterPrivateOnly:
		return t.Visibility == VisibilityPrivate
	case FilterAssignedTo:
		return t.AssignedTo != nil && *t.AssignedTo == f.UserID
	default:
		return true
	}
}

// Apply is a pure, order-preserving narrowing of the input; applying the same
// filter twice yields the same result as applying it once.
func (f TaskFilter) Apply(tasks []Task) []Task {
	if f.Kind == "" || f.Kind == FilterAll {
		return tasks
	}
	filtered := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
