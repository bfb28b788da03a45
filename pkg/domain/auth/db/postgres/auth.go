package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	kpool "github.com/modelyard/modelyard/pkg/conn/db/postgres/pool"
	"github.com/modelyard/modelyard/pkg/domain"
	"github.com/modelyard/modelyard/pkg/domain/auth"
	kdbauth "github.com/modelyard/modelyard/pkg/domain/auth/db"
	kpgerr "github.com/modelyard/modelyard/pkg/domain/errors/dberrors/postgres"
)

type authPG struct { // implements kdbauth.Interface
	pool kpool.Pool
}

func New(pool kpool.Pool) kdbauth.Interface {
	return &authPG{pool: pool}
}

func (a *authPG) ResolveOrg(
	ctx context.Context, userID string, orgID string, required domain.OrgRole,
) error {
	conn, err := a.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	var found bool
	if err := conn.QueryRow(
		ctx,
		`select exists (select 1 from "organizations" where "org_id" = $1)`,
		orgID,
	).Scan(&found); err != nil {
		return err
	}
	if !found {
		return kpgerr.Missing{Table: "organizations", Identity: orgID}
	}

	role, err := orgBinding(ctx, conn, userID, orgID)
	if err != nil {
		return err
	}
	if role.Satisfies(required) {
		return nil
	}
	return auth.Denied{
		Scope: "organization", TargetId: orgID, Required: required.String(),
	}
}

func (a *authPG) ResolveProject(
	ctx context.Context, userID string, projectID string, required domain.ProjectRole,
) error {
	conn, err := a.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	var orgID string
	if err := conn.QueryRow(
		ctx,
		`select "org_id" from "ml_projects" where "project_id" = $1`,
		projectID,
	).Scan(&orgID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return kpgerr.Missing{Table: "ml_projects", Identity: projectID}
		}
		return err
	}

	var role string
	err = conn.QueryRow(
		ctx,
		`
		select "role" from "project_members"
		where "project_id" = $1 and "user_id" = $2 and "is_active"
		`,
		projectID, userID,
	).Scan(&role)
	switch {
	case err == nil:
		// unknown role strings rank as -1 and fall through to the org check.
		if domain.ProjectRole(role).Satisfies(required) {
			return nil
		}
	case !errors.Is(err, pgx.ErrNoRows):
		return err
	}

	// org admins and owners implicitly administer every project in their org.
	orgRole, err := orgBinding(ctx, conn, userID, orgID)
	if err != nil {
		return err
	}
	if orgRole.Satisfies(domain.OrgAdmin) {
		return nil
	}

	return auth.Denied{
		Scope: "project", TargetId: projectID, Required: required.String(),
	}
}

// orgBinding fetches the user's active role on an org.
//
// Returns "" (which ranks as -1) when no active binding exists.
func orgBinding(
	ctx context.Context, conn kpool.Conn, userID string, orgID string,
) (domain.OrgRole, error) {
	var role string
	err := conn.QueryRow(
		ctx,
		`
		select "role" from "org_members"
		where "org_id" = $1 and "user_id" = $2 and "is_active"
		`,
		orgID, userID,
	).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return domain.OrgRole(role), nil
}
