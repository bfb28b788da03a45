package db

import (
	"context"

	"github.com/modelyard/modelyard/pkg/domain"
)

type Interface interface {
	// test whether a user holds at least the required rank on an organization.
	//
	// Args
	//
	// - context.Context
	//
	// - userID: principal to test.
	//
	// - orgID: organization the rank is required on.
	//
	// - required: minimum OrgRole.
	//
	// Returns
	//
	// - error: nil when allowed.
	// ErrMissing when the organization does not exist (reported before
	// any access decision).
	// auth.Denied when no active binding exists or its rank is below required.
	ResolveOrg(ctx context.Context, userID string, orgID string, required domain.OrgRole) error

	// test whether a user holds at least the required rank on a project.
	//
	// A user without a sufficient project binding is still allowed when
	// they hold an active admin-or-above binding on the project's owning
	// organization, at ANY required project rank.
	//
	// Returns
	//
	// - error: nil when allowed.
	// ErrMissing when the project does not exist.
	// auth.Denied otherwise.
	ResolveProject(ctx context.Context, userID string, projectID string, required domain.ProjectRole) error
}
