package mysql

import (
	"database/sql"

	"github.com/go-sql-driver/mysql"

	"github.com/relgraph/relgraph/schema"
)

// Dialector MySQL through github.com/go-sql-driver/mysql
type Dialector struct {
	DSN string
}

// Open a MySQL dialector for dsn, user:pass@tcp(host:3306)/db
func Open(dsn string) *Dialector {
	return &Dialector{DSN: dsn}
}

func (Dialector) Name() string {
	return "mysql"
}

// Config the parsed DSN; ParseTime is always on so DATETIME columns scan as time.Time
func (d Dialector) Config() (*mysql.Config, error) {
	config, err := mysql.ParseDSN(d.DSN)
	if err != nil {
		return nil, err
	}
	config.ParseTime = true
	return config, nil
}

// Open the handle is lazy, no connection is made until the first call
func (d Dialector) Open() (*sql.DB, error) {
	config, err := d.Config()
	if err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(config)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

// Adapt the default storage types are MySQL types already
func (Dialector) Adapt([]*schema.Entity) {}
