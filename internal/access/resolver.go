// Package access answers the four capability questions for a user and a
// form. Roles form a total order: owner > editor > reader > participant.
// Lookup failures degrade to "no access" so unauthenticated and unauthorized
// callers are indistinguishable from a missing form.
package access

import (
	"context"

	"github.com/tixomirkin/one-test/internal/form"
)

// Directory is the narrow store view the resolver needs.
type Directory interface {
	GetForm(ctx context.Context, id int64) (form.Form, error)
	GetFormBySlug(ctx context.Context, slug string) (form.Form, error)
	GetGrant(ctx context.Context, userID, formID int64) (form.Role, bool, error)
}

// Access is a resolved role for one (user, form) pair.
type Access struct {
	Role    form.Role
	IsOwner bool
}

var noAccess = Access{Role: form.RoleNone}

var roleRank = map[form.Role]int{
	form.RoleOwner:       4,
	form.RoleEditor:      3,
	form.RoleReader:      2,
	form.RoleParticipant: 1,
}

func atLeast(r, min form.Role) bool {
	return roleRank[r] >= roleRank[min]
}

type Resolver struct {
	dir Directory
}

func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// ResolveRole determines the caller's effective role on a form. userID 0 is
// anonymous and always resolves to no access. Errors never propagate; the
// resolver fails closed.
func (r *Resolver) ResolveRole(ctx context.Context, userID, formID int64) Access {
	if userID == 0 {
		return noAccess
	}
	f, err := r.dir.GetForm(ctx, formID)
	if err != nil {
		return noAccess
	}
	if f.OwnerID == userID {
		return Access{Role: form.RoleOwner, IsOwner: true}
	}
	role, ok, err := r.dir.GetGrant(ctx, userID, formID)
	if err != nil || !ok {
		return noAccess
	}
	return Access{Role: role}
}

// ResolveRoleBySlug resolves the slug first; an unknown slug is no access,
// never an error.
func (r *Resolver) ResolveRoleBySlug(ctx context.Context, userID int64, slug string) Access {
	f, err := r.dir.GetFormBySlug(ctx, slug)
	if err != nil {
		return noAccess
	}
	return r.ResolveRole(ctx, userID, f.ID)
}

// CanManageAccess: owner only. No grant role ever satisfies it.
func (r *Resolver) CanManageAccess(ctx context.Context, userID, formID int64) bool {
	return r.ResolveRole(ctx, userID, formID).IsOwner
}

// CanEditForm: owner or editor.
func (r *Resolver) CanEditForm(ctx context.Context, userID, formID int64) bool {
	return atLeast(r.ResolveRole(ctx, userID, formID).Role, form.RoleEditor)
}

// CanViewResults: owner, editor or reader.
func (r *Resolver) CanViewResults(ctx context.Context, userID, formID int64) bool {
	return atLeast(r.ResolveRole(ctx, userID, formID).Role, form.RoleReader)
}

// CanTakeForm: any resolved role.
func (r *Resolver) CanTakeForm(ctx context.Context, userID, formID int64) bool {
	return atLeast(r.ResolveRole(ctx, userID, formID).Role, form.RoleParticipant)
}

func (r *Resolver) CanTakeFormBySlug(ctx context.Context, userID int64, slug string) bool {
	return atLeast(r.ResolveRoleBySlug(ctx, userID, slug).Role, form.RoleParticipant)
}

// IsPublic reads the form's visibility flag, independent of any role.
func (r *Resolver) IsPublic(ctx context.Context, formID int64) bool {
	f, err := r.dir.GetForm(ctx, formID)
	if err != nil {
		return false
	}
	return f.IsPublic
}

func (r *Resolver) IsPublicBySlug(ctx context.Context, slug string) bool {
	f, err := r.dir.GetFormBySlug(ctx, slug)
	if err != nil {
		return false
	}
	return f.IsPublic
}
