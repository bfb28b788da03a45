package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	domerr "github.com/modelyard/modelyard/pkg/domain/errors"
)

// requested data is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s ", m.Identity, m.Table)
}
func (m Missing) Unwrap() error {
	return domerr.ErrMissing
}

// a write is rejected by a uniqueness/integrity constraint.
type Conflict struct {
	Table string
	Cause error
}

var _ error = Conflict{}

func (c Conflict) Error() string {
	return fmt.Sprintf("conflicting write on %s: %s", c.Table, c.Cause)
}

func (c Conflict) Unwrap() error {
	return domerr.ErrConflict
}

// WrapConstraint converts pg constraint violations into Conflict,
// keeping other errors as they are.
func WrapConstraint(table string, err error) error {
	if err == nil {
		return nil
	}
	pgErr := new(pgconn.PgError)
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation, pgerrcode.CheckViolation, pgerrcode.ForeignKeyViolation:
		return Conflict{Table: table, Cause: err}
	default:
		return err
	}
}
