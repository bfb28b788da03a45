package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/modelyard/modelyard/pkg/utils/pointer"
)

type RunStatus string

const (
	// This Run is registered but has not started yet.
	Queued RunStatus = "queued"

	// This Run is executing.
	Running RunStatus = "running"

	// This Run has been done, successfully.
	Finished RunStatus = "finished"

	// This Run stopped with error.
	Failed RunStatus = "failed"

	// This Run was stopped by someone before finishing.
	Killed RunStatus = "killed"
)

func (rs RunStatus) String() string {
	return string(rs)
}

func AsRunStatus(status string) (RunStatus, error) {
	switch status {
	case string(Queued):
		return Queued, nil
	case string(Running):
		return Running, nil
	case string(Finished):
		return Finished, nil
	case string(Failed):
		return Failed, nil
	case string(Killed):
		return Killed, nil
	default:
		return "", fmt.Errorf("'%s' is not RunStatus", status)
	}
}

// Terminal statuses end a run; once reached, no further status change is allowed.
func (rs RunStatus) Terminal() bool {
	switch rs {
	case Finished, Failed, Killed:
		return true
	default:
		return false
	}
}

var ErrInvalidRunStateChanging = errors.New("cannot change run state")

type RunBody struct {
	Id string

	// experiment this run belongs to.
	ExperimentId string

	// project owning the experiment. Derived on read; used for authorization.
	ProjectId string

	Name       *string
	Status     RunStatus
	StartedAt  *time.Time
	FinishedAt *time.Time
}

func (rb *RunBody) Equal(o *RunBody) bool {
	return rb.Id == o.Id &&
		rb.ExperimentId == o.ExperimentId &&
		rb.ProjectId == o.ProjectId &&
		pointer.Equal(rb.Name, o.Name) &&
		rb.Status == o.Status &&
		timePointerEqual(rb.StartedAt, o.StartedAt) &&
		timePointerEqual(rb.FinishedAt, o.FinishedAt)
}

func timePointerEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
