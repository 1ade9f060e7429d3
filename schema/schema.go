package schema

import (
	"errors"
	"fmt"
	"sync"

	"github.com/relgraph/relgraph/utils"
)

var (
	// ErrInvalidSchema metadata failed validation
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrRegistryFrozen registry already built
	ErrRegistryFrozen = errors.New("registry already built")
)

// Entity metadata of one entity type
type Entity struct {
	Name   string
	Table  string
	Fields []*Field

	FieldNames     []string
	FieldsByName   map[string]*Field
	FieldsByColumn map[string]*Field
	KeyField       *Field
	Pointers       []*Field
	OneToOnes      []*Field
	OneToManys     []*Field
}

func (entity *Entity) String() string {
	return entity.Name
}

// LookUpField find field by name, then by column
func (entity *Entity) LookUpField(name string) *Field {
	if field, ok := entity.FieldsByName[name]; ok {
		return field
	}
	if field, ok := entity.FieldsByColumn[name]; ok {
		return field
	}
	return nil
}

// Columns key and plain fields in declaration order
func (entity *Entity) Columns() []*Field {
	columns := make([]*Field, 0, len(entity.Fields))
	for _, field := range entity.Fields {
		if field.IsColumn() {
			columns = append(columns, field)
		}
	}
	return columns
}

// ValueFields plain fields in declaration order, the key is never included
func (entity *Entity) ValueFields() []*Field {
	fields := make([]*Field, 0, len(entity.Fields))
	for _, field := range entity.Fields {
		if field.Kind == Plain {
			fields = append(fields, field)
		}
	}
	return fields
}

// Relations relation fields in declaration order
func (entity *Entity) Relations() []*Field {
	fields := make([]*Field, 0, len(entity.Fields))
	for _, field := range entity.Fields {
		if field.IsRelation() {
			fields = append(fields, field)
		}
	}
	return fields
}

// Registry the set of entity types known to one DB, frozen by Build
type Registry struct {
	namer    Namer
	mu       sync.RWMutex
	entities []*Entity
	byName   map[string]*Entity
	built    bool
}

// NewRegistry create an empty registry, nil namer means NamingStrategy{}
func NewRegistry(namer Namer) *Registry {
	if namer == nil {
		namer = NamingStrategy{}
	}
	return &Registry{namer: namer, byName: map[string]*Entity{}}
}

// Register add entity types, in the order CreateSchema will use
func (r *Registry) Register(entities ...*Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.built {
		return ErrRegistryFrozen
	}

	for _, entity := range entities {
		if entity == nil || entity.Name == "" {
			return fmt.Errorf("%w: entity without name", ErrInvalidSchema)
		}
		if _, ok := r.byName[entity.Name]; ok {
			return fmt.Errorf("%w: duplicate entity %s", ErrInvalidSchema, entity.Name)
		}
		r.byName[entity.Name] = entity
		r.entities = append(r.entities, entity)
	}
	return nil
}

// Build resolve relations, validate and freeze the registry
func (r *Registry) Build() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.built {
		return ErrRegistryFrozen
	}

	for _, entity := range r.entities {
		if err := r.parseEntity(entity); err != nil {
			return err
		}
	}

	for _, entity := range r.entities {
		for _, field := range entity.Fields {
			if field.IsRelation() {
				if err := r.parseRelation(entity, field); err != nil {
					return err
				}
			}
		}
	}

	// foreign keys took their type from the key they mirror
	for _, entity := range r.entities {
		for _, field := range entity.Fields {
			if field.Kind == Plain && field.DataType == "" {
				field.DataType = String
			}
		}
	}

	r.built = true
	return nil
}

// Built reports whether Build succeeded
func (r *Registry) Built() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.built
}

// Entities registered entity types in registration order
func (r *Registry) Entities() []*Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Entity(nil), r.entities...)
}

// Lookup find entity type by name
func (r *Registry) Lookup(name string) (*Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entity, ok := r.byName[name]
	return entity, ok
}

// MustLookup like Lookup but panics on unknown names
func (r *Registry) MustLookup(name string) *Entity {
	entity, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("schema: unknown entity %s", name))
	}
	return entity
}

func (r *Registry) parseEntity(entity *Entity) error {
	if entity.Table == "" {
		entity.Table = r.namer.TableName(entity.Name)
	}
	if !utils.IsValidDBName(entity.Table) {
		return fmt.Errorf("%w: invalid table name %q for %s", ErrInvalidSchema, entity.Table, entity.Name)
	}

	entity.FieldNames = make([]string, 0, len(entity.Fields))
	entity.FieldsByName = make(map[string]*Field, len(entity.Fields))
	entity.FieldsByColumn = make(map[string]*Field, len(entity.Fields))
	entity.KeyField = nil
	entity.Pointers, entity.OneToOnes, entity.OneToManys = nil, nil, nil

	for _, field := range entity.Fields {
		if field == nil || field.Name == "" {
			return fmt.Errorf("%w: %s has a field without name", ErrInvalidSchema, entity.Name)
		}
		if _, ok := entity.FieldsByName[field.Name]; ok {
			return fmt.Errorf("%w: duplicate field %s.%s", ErrInvalidSchema, entity.Name, field.Name)
		}
		field.Entity = entity
		entity.FieldNames = append(entity.FieldNames, field.Name)
		entity.FieldsByName[field.Name] = field

		switch field.Kind {
		case Key, Plain:
			if field.Column == "" {
				field.Column = r.namer.ColumnName(entity.Table, field.Name)
			}
			if !utils.IsValidColumnName(field.Column) {
				return fmt.Errorf("%w: invalid column name %q for %s.%s", ErrInvalidSchema, field.Column, entity.Name, field.Name)
			}
			if _, ok := entity.FieldsByColumn[field.Column]; ok {
				return fmt.Errorf("%w: duplicate column %s.%s", ErrInvalidSchema, entity.Table, field.Column)
			}
			if field.DataType == "" && field.Kind == Key {
				field.DataType = Int
			}
			entity.FieldsByColumn[field.Column] = field

			if field.Kind == Key {
				if entity.KeyField != nil {
					return fmt.Errorf("%w: %s has more than one key field", ErrInvalidSchema, entity.Name)
				}
				entity.KeyField = field
			}
		case Pointer:
			entity.Pointers = append(entity.Pointers, field)
		case OneToOne:
			entity.OneToOnes = append(entity.OneToOnes, field)
		case OneToMany:
			entity.OneToManys = append(entity.OneToManys, field)
		default:
			return fmt.Errorf("%w: %s.%s has unknown kind %v", ErrInvalidSchema, entity.Name, field.Name, field.Kind)
		}
	}

	if entity.KeyField == nil {
		return fmt.Errorf("%w: %s has no key field", ErrInvalidSchema, entity.Name)
	}
	return nil
}

func (r *Registry) parseRelation(entity *Entity, field *Field) error {
	target, ok := r.byName[field.Target]
	if !ok {
		return fmt.Errorf("%w: %s.%s targets unknown entity %q", ErrInvalidSchema, entity.Name, field.Name, field.Target)
	}
	field.TargetEntity = target

	if field.ForeignKey == "" {
		if field.Kind == Pointer {
			field.ForeignKey = r.namer.ForeignKeyName(field.Name)
		} else {
			field.ForeignKey = r.namer.ForeignKeyName(entity.Name)
		}
	}

	holder := field.Holder()
	fk := holder.LookUpField(field.ForeignKey)
	if fk == nil {
		return fmt.Errorf("%w: %s.%s foreign key %s.%s does not exist", ErrInvalidSchema, entity.Name, field.Name, holder.Name, field.ForeignKey)
	}
	if fk.Kind != Plain {
		return fmt.Errorf("%w: %s.%s foreign key %s.%s must be a plain field, got %v", ErrInvalidSchema, entity.Name, field.Name, holder.Name, fk.Name, fk.Kind)
	}

	key := entity.KeyField
	if field.Kind == Pointer {
		key = target.KeyField
	}
	switch fk.DataType {
	case "":
		fk.DataType = key.DataType
	case key.DataType:
	default:
		return fmt.Errorf("%w: %s.%s foreign key %s.%s is %s but mirrors a %s key", ErrInvalidSchema, entity.Name, field.Name, holder.Name, fk.Name, fk.DataType, key.DataType)
	}
	field.ForeignField = fk
	return nil
}
