package relgraph

import (
	"context"
	"fmt"

	"github.com/relgraph/relgraph/builder"
	"github.com/relgraph/relgraph/schema"
)

// Delete remove m's row and clear its key. With CascadeDelete the loaded
// dependents flagged for delete are deleted first; with CascadeNull their
// foreign keys are set to NULL and written first, and once the row is gone
// they are dropped from m's relations.
func (db *DB) Delete(ctx context.Context, m Model) error {
	e, err := db.entity(m)
	if err != nil {
		return err
	}

	s, release, err := db.session(ctx, CascadeNone)
	if err != nil {
		return err
	}
	defer release()

	return s.delete(e)
}

func (s *session) delete(e *Entity) error {
	if !s.enter(e) {
		return nil
	}

	key, ok := e.Key()
	if !ok {
		return fmt.Errorf("%w: delete %s", ErrMissingKey, e.meta.Name)
	}

	var nulled map[*schema.Field][]*Entity
	if s.mode == CascadeDelete || s.mode == CascadeNull {
		var err error
		if nulled, err = s.detachDependents(e); err != nil {
			return err
		}
	}

	if _, err := s.exec(builder.Delete(e.meta), Params{{Column: e.meta.KeyField.Column, Value: key}}); err != nil {
		return err
	}

	release := e.acquire()
	e.clearKey()
	for field, deps := range nulled {
		e.unlink(field, deps)
	}
	release()
	return nil
}

// detachDependents delete or null out the loaded dependents behind edges
// flagged for delete; the nulled ones are returned per relation
func (s *session) detachDependents(e *Entity) (map[*schema.Field][]*Entity, error) {
	nulled := map[*schema.Field][]*Entity{}
	for _, field := range e.meta.Relations() {
		if field.Kind == schema.Pointer || !field.Cascade.Has(schema.CascadeDelete) {
			continue
		}

		for _, dep := range s.dependents(e, field) {
			if s.skip(dep) {
				continue
			}

			if s.mode == CascadeNull {
				release := dep.acquire()
				dep.fields[field.ForeignField.Name] = Null()
				for _, back := range dep.meta.Pointers {
					if back.ForeignField == field.ForeignField && dep.fields[back.Name].ref == e {
						dep.fields[back.Name] = Ref(nil)
					}
				}
				release()
				nulled[field] = append(nulled[field], dep)
			}

			if _, ok := dep.Key(); !ok {
				continue
			}

			var err error
			if s.mode == CascadeNull {
				err = s.update(dep)
			} else {
				err = s.delete(dep)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return nulled, nil
}
