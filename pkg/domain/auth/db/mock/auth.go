package mock

import (
	"context"
	"errors"

	"github.com/modelyard/modelyard/pkg/domain"
	kdbauth "github.com/modelyard/modelyard/pkg/domain/auth/db"
	dbmock "github.com/modelyard/modelyard/pkg/domain/internal/db/mock"
)

type Interface struct {
	Impl struct {
		ResolveOrg     func(ctx context.Context, userID string, orgID string, required domain.OrgRole) error
		ResolveProject func(ctx context.Context, userID string, projectID string, required domain.ProjectRole) error
	}

	Calls struct {
		ResolveOrg dbmock.CallLog[struct {
			UserId   string
			OrgId    string
			Required domain.OrgRole
		}]
		ResolveProject dbmock.CallLog[struct {
			UserId    string
			ProjectId string
			Required  domain.ProjectRole
		}]
	}
}

func New() *Interface {
	return &Interface{}
}

var _ kdbauth.Interface = &Interface{}

func (m *Interface) ResolveOrg(
	ctx context.Context, userID string, orgID string, required domain.OrgRole,
) error {
	m.Calls.ResolveOrg = append(m.Calls.ResolveOrg, struct {
		UserId   string
		OrgId    string
		Required domain.OrgRole
	}{UserId: userID, OrgId: orgID, Required: required})
	if m.Impl.ResolveOrg != nil {
		return m.Impl.ResolveOrg(ctx, userID, orgID, required)
	}
	panic(errors.New("it should not be called"))
}

func (m *Interface) ResolveProject(
	ctx context.Context, userID string, projectID string, required domain.ProjectRole,
) error {
	m.Calls.ResolveProject = append(m.Calls.ResolveProject, struct {
		UserId    string
		ProjectId string
		Required  domain.ProjectRole
	}{UserId: userID, ProjectId: projectID, Required: required})
	if m.Impl.ResolveProject != nil {
		return m.Impl.ResolveProject(ctx, userID, projectID, required)
	}
	panic(errors.New("it should not be called"))
}
