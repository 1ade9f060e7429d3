package relgraph

import (
	"context"

	"github.com/relgraph/relgraph/builder"
	"github.com/relgraph/relgraph/schema"
)

// Insert write m as a new row and store the assigned key. Unless the mode
// is CascadeNone, keyless pointer targets flagged for insert are written
// first and one-to-one / one-to-many dependents flagged for insert are
// written after, carrying the new key. The first store error aborts the
// cascade; rows written before it stay written.
func (db *DB) Insert(ctx context.Context, m Model) error {
	e, err := db.entity(m)
	if err != nil {
		return err
	}

	s, release, err := db.session(ctx, CascadeInsert)
	if err != nil {
		return err
	}
	defer release()

	return s.insert(e)
}

func (s *session) insert(e *Entity) error {
	if !s.enter(e) {
		return nil
	}

	cascade := s.mode != CascadeNone
	if cascade {
		if err := s.savePointers(e, schema.CascadeInsert); err != nil {
			return err
		}
	}

	release := e.acquire()
	params := e.params()
	release()

	result, err := s.exec(builder.Insert(e.meta), params)
	if err != nil {
		return err
	}

	release = e.acquire()
	e.setKey(result.LastInsertID)
	release()

	if cascade {
		return s.saveDependents(e, schema.CascadeInsert)
	}
	return nil
}

// savePointers write the targets e refers to, then copy their keys into
// e's foreign keys. Keyless targets are inserted; targets with a key are
// updated only when flag is CascadeUpdate.
func (s *session) savePointers(e *Entity, flag schema.Cascade) error {
	for _, field := range e.meta.Pointers {
		if !field.Cascade.Has(flag) {
			continue
		}

		target := s.pointer(e, field)
		if target == nil {
			continue
		}

		if !s.skip(target) {
			if _, ok := target.Key(); !ok {
				if err := s.insert(target); err != nil {
					return err
				}
			} else if flag == schema.CascadeUpdate {
				if err := s.update(target); err != nil {
					return err
				}
			}
		}

		g := lock(e, target)
		e.setPointer(field, target)
		g.release()
	}
	return nil
}

// saveDependents hand e's key to its dependents, then insert the keyless
// ones and update the others
func (s *session) saveDependents(e *Entity, flag schema.Cascade) error {
	for _, field := range e.meta.Relations() {
		if field.Kind == schema.Pointer || !field.Cascade.Has(flag) {
			continue
		}

		for _, dep := range s.dependents(e, field) {
			if s.synced(dep) {
				continue
			}
			s.link(e, dep, field)
			if s.skip(dep) {
				continue
			}

			var err error
			if _, ok := dep.Key(); ok {
				err = s.update(dep)
			} else {
				err = s.insert(dep)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
