package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelyard/modelyard/pkg/domain"
)

// some samples name metric keys that no definition exists for.
//
// Reported before anything is written.
var ErrUnknownMetricKey = errors.New("unknown metric key")

type UnknownMetricKeys struct {
	// offending keys, sorted.
	Keys []string
}

var _ error = UnknownMetricKeys{}

func (u UnknownMetricKeys) Error() string {
	return fmt.Sprintf("unknown metric keys: [%s]", strings.Join(u.Keys, ", "))
}

func (u UnknownMetricKeys) Unwrap() error {
	return ErrUnknownMetricKey
}

type Interface interface {
	// look up a metric definition by its key.
	//
	// Returns
	//
	// - domain.MetricDefinition
	//
	// - error: ErrMissing when no definition has the key.
	Definition(ctx context.Context, key string) (domain.MetricDefinition, error)

	// look up a metric definition by its id.
	//
	// Returns
	//
	// - error: ErrMissing when no definition has the id.
	DefinitionByID(ctx context.Context, metricID string) (domain.MetricDefinition, error)

	// fetch one sample together with its owning project id, mainly to
	// authorize a deletion.
	//
	// Returns
	//
	// - domain.MetricSample
	//
	// - string: project id the sample belongs to.
	//
	// - error: ErrMissing when no sample has the id.
	Sample(ctx context.Context, sampleID string) (domain.MetricSample, string, error)

	// write metric samples for a run.
	//
	// All samples are written in one transaction, together with one audit
	// record per sample. For each final sample (Step == nil) the
	// per-(project, metric, scope) summary is maintained in the same
	// transaction; stepped samples never touch the summary.
	//
	// Args
	//
	// - context.Context
	//
	// - runID: run the samples belong to.
	//
	// - samples: samples to write. Metrics are addressed by key.
	//
	// - actor: user id recorded on the audit rows; nil for system writes.
	//
	// Returns
	//
	// - []domain.MetricSample: written samples, ids and timestamps assigned.
	//
	// - error: ErrMissing (run absent), UnknownMetricKeys (some keys have
	// no definition; nothing is written).
	Register(ctx context.Context, runID string, samples []domain.NewMetricSample, actor *string) ([]domain.MetricSample, error)

	// delete one metric sample.
	//
	// The deletion is audited in the same transaction. When the sample was
	// final, the summary for its key is rebuilt from the remaining final
	// samples before committing.
	//
	// Returns
	//
	// - error: ErrMissing when no sample has the id.
	Remove(ctx context.Context, sampleID string, actor *string) error
}
