package relgraph

import (
	"context"
	"fmt"

	"github.com/relgraph/relgraph/builder"
	"github.com/relgraph/relgraph/schema"
)

// Update write m's scalars to its row. With CascadeUpdate every loaded
// entity behind an edge flagged for update is written as well, keyless
// ones are inserted.
func (db *DB) Update(ctx context.Context, m Model) error {
	e, err := db.entity(m)
	if err != nil {
		return err
	}

	s, release, err := db.session(ctx, CascadeNone)
	if err != nil {
		return err
	}
	defer release()

	return s.update(e)
}

func (s *session) update(e *Entity) error {
	if !s.enter(e) {
		return nil
	}

	if _, ok := e.Key(); !ok {
		return fmt.Errorf("%w: update %s", ErrMissingKey, e.meta.Name)
	}

	cascade := s.mode == CascadeUpdate
	if cascade {
		if err := s.savePointers(e, schema.CascadeUpdate); err != nil {
			return err
		}
	}

	// an entity made only of relations has no row to rewrite
	if sql := builder.Update(e.meta); sql != "" {
		release := e.acquire()
		key, _ := e.key()
		params := append(e.params(), Param{Column: e.meta.KeyField.Column, Value: key})
		release()

		if _, err := s.exec(sql, params); err != nil {
			return err
		}
	}

	if cascade {
		return s.saveDependents(e, schema.CascadeUpdate)
	}
	return nil
}
