package relgraph

import "github.com/relgraph/relgraph/schema"

// SetPointer link a single reference; the owner's foreign key takes the
// target's key, or NULL when target is nil
func (e *Entity) SetPointer(name string, target Model) {
	field := e.relation(name, schema.Pointer)
	t := e.target(field, target)

	g := lock(e, t)
	defer g.release()
	e.setPointer(field, t)
}

// Pointer the target of a single reference, nil when cleared
func (e *Entity) Pointer(name string) (*Entity, error) {
	return e.ref(e.relation(name, schema.Pointer))
}

// SetOneOne link a one-to-one dependent; the target's foreign key takes
// this entity's key and a previous different target is unlinked
func (e *Entity) SetOneOne(name string, target Model) {
	field := e.relation(name, schema.OneToOne)
	t := e.target(field, target)

	g := lock(e, t)
	defer g.release()

	old := e.fields[field.Name].ref
	g.add(old)
	e.setOneOne(field, old, t)
}

// OneOne the one-to-one dependent, nil when cleared
func (e *Entity) OneOne(name string) (*Entity, error) {
	return e.ref(e.relation(name, schema.OneToOne))
}

// SetOneMany replace a one-to-many collection; previous members lose
// their foreign key before the new members take this entity's key
func (e *Entity) SetOneMany(name string, targets []*Entity) {
	field := e.relation(name, schema.OneToMany)
	members := make([]*Entity, 0, len(targets))
	for _, t := range targets {
		if t = e.target(field, t); t != nil {
			members = append(members, t)
		}
	}

	g := lock(e)
	defer g.release()
	g.add(members...)

	old := e.fields[field.Name].refs
	g.add(old...)
	e.setOneMany(field, old, members)
}

// OneMany the one-to-many collection
func (e *Entity) OneMany(name string) ([]*Entity, error) {
	field := e.relation(name, schema.OneToMany)
	defer e.acquire()()

	v, ok := e.fields[field.Name]
	if !ok {
		return nil, &NotLoadedError{Entity: e.meta.Name, Field: name}
	}
	return v.Entities(), nil
}

// Loaded reports whether a relation was set or fetched
func (e *Entity) Loaded(name string) bool {
	field := e.field(name)
	if !field.IsRelation() {
		return true
	}
	defer e.acquire()()
	_, ok := e.fields[field.Name]
	return ok
}

// Unload forget a relation, the next access reports ErrNotLoaded.
// Foreign keys are left as they are.
func (e *Entity) Unload(name string) {
	field := e.field(name)
	if !field.IsRelation() {
		panic(&SchemaMismatchError{Entity: e.meta.Name, Field: name, Want: "a relation", Got: field.Kind.String()})
	}
	defer e.acquire()()
	delete(e.fields, field.Name)
}

// Inners the nodes behind typed handles
func Inners[M Model](models []M) []*Entity {
	nodes := make([]*Entity, 0, len(models))
	for _, m := range models {
		if e := m.Inner(); e != nil {
			nodes = append(nodes, e)
		}
	}
	return nodes
}

func (e *Entity) setPointer(field *schema.Field, t *Entity) {
	fk := field.ForeignField.Name
	if t == nil {
		e.fields[fk] = Null()
	} else {
		e.fields[fk] = t.keyValue().As(field.ForeignField.DataType)
	}
	e.fields[field.Name] = Ref(t)
}

func (e *Entity) setOneOne(field *schema.Field, old, t *Entity) {
	fk := field.ForeignField.Name
	if old != nil && (t == nil || old.id != t.id) {
		old.fields[fk] = Null()
	}
	if t != nil {
		t.fields[fk] = e.keyValue().As(field.ForeignField.DataType)
	}
	e.fields[field.Name] = Ref(t)
}

func (e *Entity) setOneMany(field *schema.Field, old, targets []*Entity) {
	fk := field.ForeignField.Name
	for _, o := range old {
		o.fields[fk] = Null()
	}
	key := e.keyValue().As(field.ForeignField.DataType)
	for _, t := range targets {
		t.fields[fk] = key
	}
	e.fields[field.Name] = Refs(targets)
}

// unlink drop deps from a one-to-one or one-to-many relation of e
func (e *Entity) unlink(field *schema.Field, deps []*Entity) {
	v, ok := e.fields[field.Name]
	if !ok {
		return
	}
	gone := make(map[uint64]struct{}, len(deps))
	for _, dep := range deps {
		gone[dep.id] = struct{}{}
	}

	if field.Kind == schema.OneToOne {
		if v.ref != nil {
			if _, ok := gone[v.ref.id]; ok {
				e.fields[field.Name] = Ref(nil)
			}
		}
		return
	}
	kept := make([]*Entity, 0, len(v.refs))
	for _, member := range v.refs {
		if _, ok := gone[member.id]; !ok {
			kept = append(kept, member)
		}
	}
	e.fields[field.Name] = Refs(kept)
}

func (e *Entity) ref(field *schema.Field) (*Entity, error) {
	defer e.acquire()()

	v, ok := e.fields[field.Name]
	if !ok {
		return nil, &NotLoadedError{Entity: e.meta.Name, Field: field.Name}
	}
	return v.ref, nil
}

func (e *Entity) relation(name string, kind schema.FieldKind) *schema.Field {
	field := e.field(name)
	if field.Kind != kind {
		panic(&SchemaMismatchError{Entity: e.meta.Name, Field: name, Want: kind.String(), Got: field.Kind.String()})
	}
	return field
}

// target checks that m is an entity of the relation's target type
func (e *Entity) target(field *schema.Field, m Model) *Entity {
	t := inner(m)
	if t != nil && t.meta != field.TargetEntity {
		panic(&SchemaMismatchError{Entity: e.meta.Name, Field: field.Name, Want: field.Target, Got: t.meta.Name})
	}
	return t
}
