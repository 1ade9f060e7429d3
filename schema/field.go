package schema

import (
	"fmt"
	"strings"
)

// FieldKind what a field holds and, for relations, which side stores the foreign key
type FieldKind int

const (
	// Plain ordinary scalar column
	Plain FieldKind = iota
	// Key the store assigned identifier
	Key
	// Pointer this entity stores the target's key (single reference, owning side)
	Pointer
	// OneToOne the target stores this entity's key; at most one target
	OneToOne
	// OneToMany every target stores this entity's key
	OneToMany
)

var fieldKindNames = map[FieldKind]string{
	Plain:     "plain",
	Key:       "key",
	Pointer:   "pointer",
	OneToOne:  "one_to_one",
	OneToMany: "one_to_many",
}

func (k FieldKind) String() string {
	if name, ok := fieldKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

// IsRelation reports whether fields of this kind link to other entities
func (k FieldKind) IsRelation() bool {
	return k == Pointer || k == OneToOne || k == OneToMany
}

// ParseFieldKind parse kind names as written in metadata files
func ParseFieldKind(s string) (FieldKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain":
		return Plain, nil
	case "key", "id":
		return Key, nil
	case "pointer", "single_ref", "belongs_to":
		return Pointer, nil
	case "one_to_one", "has_one":
		return OneToOne, nil
	case "one_to_many", "has_many":
		return OneToMany, nil
	}
	return Plain, fmt.Errorf("%w: unknown field kind %q", ErrInvalidSchema, s)
}

// DataType scalar type of a column
type DataType string

const (
	Bool   DataType = "bool"
	Int    DataType = "int"
	Uint   DataType = "uint"
	Float  DataType = "float"
	String DataType = "string"
	Time   DataType = "time"
	Bytes  DataType = "bytes"
)

// Cascade which persistence operations follow a relation edge
type Cascade uint8

const (
	CascadeInsert Cascade = 1 << iota
	CascadeUpdate
	CascadeDelete

	CascadeNone Cascade = 0
	CascadeAll          = CascadeInsert | CascadeUpdate | CascadeDelete
)

// Has reports whether every bit of flag is enabled
func (c Cascade) Has(flag Cascade) bool {
	return flag != 0 && c&flag == flag
}

func (c Cascade) String() string {
	if c == CascadeNone {
		return "none"
	}
	var names []string
	if c.Has(CascadeInsert) {
		names = append(names, "insert")
	}
	if c.Has(CascadeUpdate) {
		names = append(names, "update")
	}
	if c.Has(CascadeDelete) {
		names = append(names, "delete")
	}
	return strings.Join(names, ",")
}

// ParseCascade parse insert, update, delete, all and none
func ParseCascade(names ...string) (Cascade, error) {
	var c Cascade
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "insert", "create":
			c |= CascadeInsert
		case "update", "save":
			c |= CascadeUpdate
		case "delete":
			c |= CascadeDelete
		case "all":
			c |= CascadeAll
		case "none", "":
		default:
			return CascadeNone, fmt.Errorf("%w: unknown cascade %q", ErrInvalidSchema, name)
		}
	}
	return c, nil
}

// Field field descriptor
type Field struct {
	Name     string
	Kind     FieldKind
	Column   string
	DataType DataType
	Size     int
	// Type overrides the storage type derived from DataType
	Type    string
	NotNull bool
	Default string

	// relations only
	Target     string
	ForeignKey string
	Cascade    Cascade

	// resolved by Registry.Build
	Entity       *Entity
	TargetEntity *Entity
	ForeignField *Field
}

// IsRelation reports whether the field links to other entities
func (field *Field) IsRelation() bool {
	return field.Kind.IsRelation()
}

// IsColumn reports whether the field is stored in its own table
func (field *Field) IsColumn() bool {
	return field.Kind == Key || field.Kind == Plain
}

// Holder the entity whose table stores the relation's foreign key
func (field *Field) Holder() *Entity {
	if field.Kind == Pointer {
		return field.Entity
	}
	return field.TargetEntity
}

// ColumnType storage type used in CREATE TABLE
func (field *Field) ColumnType() string {
	if field.Type != "" {
		return field.Type
	}

	if field.Kind == Key {
		if field.DataType == Uint {
			return "BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT"
		}
		return "BIGINT PRIMARY KEY AUTO_INCREMENT"
	}

	switch field.DataType {
	case Bool:
		return "TINYINT(1)"
	case Int:
		return "BIGINT"
	case Uint:
		return "BIGINT UNSIGNED"
	case Float:
		return "DOUBLE"
	case Time:
		return "DATETIME"
	case Bytes:
		return "BLOB"
	default:
		size := field.Size
		if size <= 0 {
			size = 255
		}
		return fmt.Sprintf("VARCHAR(%d)", size)
	}
}

// ColumnDef column definition used in CREATE TABLE
func (field *Field) ColumnDef() string {
	var sql strings.Builder
	sql.WriteString("`" + field.Column + "` " + field.ColumnType())
	if field.NotNull && field.Kind != Key {
		sql.WriteString(" NOT NULL")
	}
	if field.Default != "" {
		sql.WriteString(" DEFAULT " + field.Default)
	}
	return sql.String()
}
