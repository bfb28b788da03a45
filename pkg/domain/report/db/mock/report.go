package mock

import (
	"context"
	"errors"

	"github.com/modelyard/modelyard/pkg/domain"
	dbmock "github.com/modelyard/modelyard/pkg/domain/internal/db/mock"
	kdbreport "github.com/modelyard/modelyard/pkg/domain/report/db"
)

type Interface struct {
	Impl struct {
		Experiment       func(ctx context.Context, experimentID string) (domain.Experiment, error)
		Leaderboard      func(ctx context.Context, experimentID string, metricKey string, scope domain.MetricScope, limit int) ([]domain.LeaderboardEntry, error)
		BestRun          func(ctx context.Context, experimentID string, metricKey string, scope domain.MetricScope) (domain.LeaderboardEntry, error)
		ProjectDashboard func(ctx context.Context, projectID string) ([]domain.MetricSummary, error)
	}

	Calls struct {
		Experiment  dbmock.CallLog[string]
		Leaderboard dbmock.CallLog[struct {
			ExperimentId string
			MetricKey    string
			Scope        domain.MetricScope
			Limit        int
		}]
		BestRun dbmock.CallLog[struct {
			ExperimentId string
			MetricKey    string
			Scope        domain.MetricScope
		}]
		ProjectDashboard dbmock.CallLog[string]
	}
}

func New() *Interface {
	return &Interface{}
}

var _ kdbreport.Interface = &Interface{}

func (m *Interface) Experiment(ctx context.Context, experimentID string) (domain.Experiment, error) {
	m.Calls.Experiment = append(m.Calls.Experiment, experimentID)
	if m.Impl.Experiment != nil {
		return m.Impl.Experiment(ctx, experimentID)
	}
	panic(errors.New("it should not be called"))
}

func (m *Interface) Leaderboard(
	ctx context.Context, experimentID string, metricKey string, scope domain.MetricScope, limit int,
) ([]domain.LeaderboardEntry, error) {
	m.Calls.Leaderboard = append(m.Calls.Leaderboard, struct {
		ExperimentId string
		MetricKey    string
		Scope        domain.MetricScope
		Limit        int
	}{ExperimentId: experimentID, MetricKey: metricKey, Scope: scope, Limit: limit})
	if m.Impl.Leaderboard != nil {
		return m.Impl.Leaderboard(ctx, experimentID, metricKey, scope, limit)
	}
	panic(errors.New("it should not be called"))
}

func (m *Interface) BestRun(
	ctx context.Context, experimentID string, metricKey string, scope domain.MetricScope,
) (domain.LeaderboardEntry, error) {
	m.Calls.BestRun = append(m.Calls.BestRun, struct {
		ExperimentId string
		MetricKey    string
		Scope        domain.MetricScope
	}{ExperimentId: experimentID, MetricKey: metricKey, Scope: scope})
	if m.Impl.BestRun != nil {
		return m.Impl.BestRun(ctx, experimentID, metricKey, scope)
	}
	panic(errors.New("it should not be called"))
}

func (m *Interface) ProjectDashboard(
	ctx context.Context, projectID string,
) ([]domain.MetricSummary, error) {
	m.Calls.ProjectDashboard = append(m.Calls.ProjectDashboard, projectID)
	if m.Impl.ProjectDashboard != nil {
		return m.Impl.ProjectDashboard(ctx, projectID)
	}
	panic(errors.New("it should not be called"))
}
