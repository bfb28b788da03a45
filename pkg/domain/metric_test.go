package domain_test

import (
	"testing"

	"github.com/modelyard/modelyard/pkg/domain"
	"github.com/modelyard/modelyard/pkg/utils/pointer"
)

func TestMetricGoalBeats(t *testing.T) {
	for name, testcase := range map[string]struct {
		goal      domain.MetricGoal
		candidate float64
		best      *float64
		want      bool
	}{
		"any value beats an empty best": {
			goal: domain.GoalMax, candidate: 0.1, best: nil, want: true,
		},
		"max: a greater value displaces": {
			goal: domain.GoalMax, candidate: 0.9, best: pointer.Ref(0.5), want: true,
		},
		"max: a lesser value does not": {
			goal: domain.GoalMax, candidate: 0.3, best: pointer.Ref(0.5), want: false,
		},
		"max: a tie keeps the incumbent": {
			goal: domain.GoalMax, candidate: 0.5, best: pointer.Ref(0.5), want: false,
		},
		"min: a lesser value displaces": {
			goal: domain.GoalMin, candidate: 0.3, best: pointer.Ref(0.5), want: true,
		},
		"min: a greater value does not": {
			goal: domain.GoalMin, candidate: 0.9, best: pointer.Ref(0.5), want: false,
		},
		"min: a tie keeps the incumbent": {
			goal: domain.GoalMin, candidate: 0.5, best: pointer.Ref(0.5), want: false,
		},
		"last: always displaces": {
			goal: domain.GoalLast, candidate: 0.1, best: pointer.Ref(0.9), want: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			if got := testcase.goal.Beats(testcase.candidate, testcase.best); got != testcase.want {
				t.Errorf("got %v, want %v", got, testcase.want)
			}
		})
	}
}

func TestMetricSampleFinal(t *testing.T) {
	final := domain.MetricSample{Scope: domain.ScopeVal, Value: 0.9}
	if !final.Final() {
		t.Error("a sample without a step should be final")
	}

	stepped := domain.MetricSample{Scope: domain.ScopeVal, Step: pointer.Ref(0), Value: 0.9}
	if stepped.Final() {
		t.Error("a sample with a step should not be final, even step 0")
	}
}

func TestAsMetricGoal(t *testing.T) {
	for _, goal := range []string{"max", "min", "last"} {
		if got, err := domain.AsMetricGoal(goal); err != nil || got.String() != goal {
			t.Errorf("AsMetricGoal(%s): got (%s, %v)", goal, got, err)
		}
	}
	if _, err := domain.AsMetricGoal("best"); err == nil {
		t.Error("an error is expected")
	}
}

func TestAsMetricScope(t *testing.T) {
	for _, scope := range []string{"train", "val", "test"} {
		if got, err := domain.AsMetricScope(scope); err != nil || got.String() != scope {
			t.Errorf("AsMetricScope(%s): got (%s, %v)", scope, got, err)
		}
	}
	if _, err := domain.AsMetricScope("validation"); err == nil {
		t.Error("an error is expected")
	}
}

func TestRunStatusTerminal(t *testing.T) {
	for status, want := range map[domain.RunStatus]bool{
		domain.Queued:   false,
		domain.Running:  false,
		domain.Finished: true,
		domain.Failed:   true,
		domain.Killed:   true,
	} {
		if got := status.Terminal(); got != want {
			t.Errorf("%s.Terminal(): got %v, want %v", status, got, want)
		}
	}
}
