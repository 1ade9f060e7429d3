package schema

import (
	"strings"
	"sync"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Namer derives table, column and foreign key names the metadata leaves out
type Namer interface {
	TableName(entity string) string
	ColumnName(table, field string) string
	ForeignKeyName(name string) string
}

// NamingStrategy snake_case names, tables pluralized unless SingularTable
type NamingStrategy struct {
	TablePrefix   string
	SingularTable bool
}

// TableName Customer -> customers, ShippingInfo -> shipping_infos
func (ns NamingStrategy) TableName(entity string) string {
	name := snakeCase(entity)
	if !ns.SingularTable {
		name = inflection.Plural(name)
	}
	return ns.TablePrefix + name
}

// ColumnName CustomerID -> customer_id
func (ns NamingStrategy) ColumnName(table, field string) string {
	return snakeCase(field)
}

// ForeignKeyName default foreign key field for a relation or owner name, customer -> customer_id
func (ns NamingStrategy) ForeignKeyName(name string) string {
	return snakeCase(name) + "_id"
}

// initialisms from golint, kept whole when splitting words
var initialisms = sync.OnceValue(func() *strings.Replacer {
	words := []string{"API", "ASCII", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "LHS", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP", "SSH", "TLS", "TTL", "UID", "UI", "UUID", "URI", "URL", "UTF8", "VM", "XML", "XSRF", "XSS"}
	caser := cases.Title(language.Und)
	pairs := make([]string, 0, 2*len(words))
	for _, word := range words {
		pairs = append(pairs, word, caser.String(word))
	}
	return strings.NewReplacer(pairs...)
})

var snakeNames sync.Map

// snakeCase split on case changes: an upper case letter starts a word unless
// it continues a run of capitals that goes on into another capital or digit
func snakeCase(name string) string {
	if name == "" {
		return ""
	}
	if v, ok := snakeNames.Load(name); ok {
		return v.(string)
	}

	value := initialisms().Replace(name)
	last := len(value) - 1

	var buf strings.Builder
	buf.Grow(len(value) + 4)
	for i := 0; i <= last; i++ {
		c := value[i]
		if !isUpper(c) {
			buf.WriteByte(c)
			continue
		}

		afterUpper := i > 0 && isUpper(value[i-1])
		switch {
		case i == last:
			if i > 0 && !afterUpper {
				buf.WriteByte('_')
			}
		case afterUpper && (isUpper(value[i+1]) || isDigit(value[i+1])):
		case i > 0 && value[i-1] != '_' && value[i+1] != '_':
			buf.WriteByte('_')
		}
		buf.WriteByte(c + 'a' - 'A')
	}

	snake := buf.String()
	snakeNames.Store(name, snake)
	return snake
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
