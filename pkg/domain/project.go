package domain

import "fmt"

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

func AsProjectStatus(status string) (ProjectStatus, error) {
	switch status {
	case string(ProjectActive):
		return ProjectActive, nil
	case string(ProjectArchived):
		return ProjectArchived, nil
	default:
		return "", fmt.Errorf("'%s' is not ProjectStatus", status)
	}
}

type Project struct {
	Id string

	// organization owning this project.
	OrgId string

	Name        string
	Description *string
	Status      ProjectStatus
}

type Experiment struct {
	Id        string
	ProjectId string
	Name      string
	Objective *string
}
