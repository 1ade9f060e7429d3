package sqlite

import (
	"database/sql"
	"strings"

	// register the pure Go "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/relgraph/relgraph/schema"
)

// DriverName database/sql driver registered by modernc.org/sqlite
const DriverName = "sqlite"

// KeyType storage type of key fields, rowid alias with AUTOINCREMENT
const KeyType = "INTEGER PRIMARY KEY AUTOINCREMENT"

// Dialector SQLite through modernc.org/sqlite
type Dialector struct {
	DSN string
}

// Open a SQLite dialector, dsn is a file path or ":memory:"
func Open(dsn string) *Dialector {
	return &Dialector{DSN: dsn}
}

func (Dialector) Name() string {
	return "sqlite"
}

func (d Dialector) Open() (*sql.DB, error) {
	db, err := sql.Open(DriverName, d.DSN)
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a database of its own
	if d.inMemory() {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Adapt key fields without an explicit type become KeyType
func (Dialector) Adapt(entities []*schema.Entity) {
	for _, entity := range entities {
		for _, field := range entity.Fields {
			if field.Kind == schema.Key && field.Type == "" {
				field.Type = KeyType
			}
		}
	}
}

func (d Dialector) inMemory() bool {
	return d.DSN == "" || strings.Contains(d.DSN, ":memory:") || strings.Contains(d.DSN, "mode=memory")
}
