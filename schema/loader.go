package schema

import (
	"fmt"
	"io"
	"os"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

type fileSchema struct {
	Entities []fileEntity `yaml:"entities"`
}

type fileEntity struct {
	Name   string      `yaml:"name"`
	Table  string      `yaml:"table"`
	Fields []fileField `yaml:"fields"`
}

type fileField struct {
	Name       string   `yaml:"name"`
	Kind       string   `yaml:"kind"`
	Column     string   `yaml:"column"`
	DataType   string   `yaml:"data_type"`
	Size       int      `yaml:"size"`
	Type       string   `yaml:"type"`
	NotNull    bool     `yaml:"not_null"`
	Default    string   `yaml:"default"`
	Target     string   `yaml:"target"`
	ForeignKey string   `yaml:"foreign_key"`
	Cascade    []string `yaml:"cascade"`
}

// LoadFile read a YAML metadata file and build a registry from it
func LoadFile(path string, namer Namer) (*Registry, error) {
	entities, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return build(namer, entities)
}

// LoadYAML build a registry from YAML metadata:
//
//	entities:
//	  - name: Customer
//	    fields:
//	      - {name: id, kind: key}
//	      - {name: name, data_type: string, size: 64}
//	      - {name: orders, kind: one_to_many, target: Order, cascade: [insert]}
func LoadYAML(r io.Reader, namer Namer) (*Registry, error) {
	entities, err := DecodeYAML(r)
	if err != nil {
		return nil, err
	}
	return build(namer, entities)
}

// DecodeFile like DecodeYAML, reading path
func DecodeFile(path string) ([]*Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeYAML(f)
}

// DecodeYAML parse YAML metadata into unbuilt entities, so they can be
// adjusted before they are registered
func DecodeYAML(r io.Reader) ([]*Entity, error) {
	var doc fileSchema
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	caser := cases.Title(language.English, cases.NoLower)
	entities := make([]*Entity, 0, len(doc.Entities))

	for _, fe := range doc.Entities {
		entity := &Entity{Name: entityName(caser, fe.Name), Table: fe.Table}
		for _, ff := range fe.Fields {
			kind, err := ParseFieldKind(ff.Kind)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", entity.Name, ff.Name, err)
			}
			cascade, err := ParseCascade(ff.Cascade...)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", entity.Name, ff.Name, err)
			}

			field := &Field{
				Name:       ff.Name,
				Kind:       kind,
				Column:     ff.Column,
				DataType:   DataType(ff.DataType),
				Size:       ff.Size,
				Type:       ff.Type,
				NotNull:    ff.NotNull,
				Default:    ff.Default,
				ForeignKey: ff.ForeignKey,
				Cascade:    cascade,
			}
			if kind.IsRelation() {
				field.Target = entityName(caser, ff.Target)
			}
			entity.Fields = append(entity.Fields, field)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func build(namer Namer, entities []*Entity) (*Registry, error) {
	registry := NewRegistry(namer)
	if err := registry.Register(entities...); err != nil {
		return nil, err
	}
	if err := registry.Build(); err != nil {
		return nil, err
	}
	return registry, nil
}

// entityName title cases names written in lower case, order -> Order
func entityName(caser cases.Caser, name string) string {
	if r, _ := utf8.DecodeRuneInString(name); unicode.IsLower(r) {
		return caser.String(name)
	}
	return name
}
