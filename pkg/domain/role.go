package domain

import "fmt"

// role of a user within an organization.
type OrgRole string

const (
	// This user can browse the organization's projects.
	OrgViewer OrgRole = "viewer"

	// This user can create projects and experiments.
	OrgMember OrgRole = "member"

	// This user administers the organization.
	//
	// Admins (and owners) implicitly administer every project
	// belonging to the organization.
	OrgAdmin OrgRole = "admin"

	// This user owns the organization.
	OrgOwner OrgRole = "owner"
)

func (r OrgRole) String() string {
	return string(r)
}

// Rank maps the role onto its total order. Unknown roles rank as -1,
// which no requirement is satisfied by.
func (r OrgRole) Rank() int {
	switch r {
	case OrgViewer:
		return 0
	case OrgMember:
		return 1
	case OrgAdmin:
		return 2
	case OrgOwner:
		return 3
	default:
		return -1
	}
}

// Satisfies tests whether this role is at least as privileged as required.
func (r OrgRole) Satisfies(required OrgRole) bool {
	return 0 <= r.Rank() && required.Rank() <= r.Rank()
}

func AsOrgRole(role string) (OrgRole, error) {
	switch role {
	case string(OrgViewer):
		return OrgViewer, nil
	case string(OrgMember):
		return OrgMember, nil
	case string(OrgAdmin):
		return OrgAdmin, nil
	case string(OrgOwner):
		return OrgOwner, nil
	default:
		return "", fmt.Errorf("'%s' is not OrgRole", role)
	}
}

// role of a user within a project.
type ProjectRole string

const (
	// This user can read the project's runs, metrics and reports.
	ProjectViewer ProjectRole = "viewer"

	// This user can write runs and metric samples.
	ProjectEditor ProjectRole = "editor"

	// This user administers the project.
	ProjectAdmin ProjectRole = "admin"
)

func (r ProjectRole) String() string {
	return string(r)
}

// Rank maps the role onto its total order. Unknown roles rank as -1.
func (r ProjectRole) Rank() int {
	switch r {
	case ProjectViewer:
		return 0
	case ProjectEditor:
		return 1
	case ProjectAdmin:
		return 2
	default:
		return -1
	}
}

// Satisfies tests whether this role is at least as privileged as required.
func (r ProjectRole) Satisfies(required ProjectRole) bool {
	return 0 <= r.Rank() && required.Rank() <= r.Rank()
}

func AsProjectRole(role string) (ProjectRole, error) {
	switch role {
	case string(ProjectViewer):
		return ProjectViewer, nil
	case string(ProjectEditor):
		return ProjectEditor, nil
	case string(ProjectAdmin):
		return ProjectAdmin, nil
	default:
		return "", fmt.Errorf("'%s' is not ProjectRole", role)
	}
}
