package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/relgraph/relgraph"
	"github.com/relgraph/relgraph/dialects"
	"github.com/relgraph/relgraph/dialects/mysql"
	"github.com/relgraph/relgraph/dialects/sqlite"
	"github.com/relgraph/relgraph/logger"
	"github.com/relgraph/relgraph/schema"
)

var (
	// ErrUnknownDriver driver setting names no dialect
	ErrUnknownDriver = errors.New("unknown driver")
	// ErrUnknownLogger logger setting names no adapter
	ErrUnknownLogger = errors.New("unknown logger")
)

const slowThreshold = 200 * time.Millisecond

// NewDialector pick the dialect for driver
func NewDialector(driver, dsn string) (dialects.Dialector, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		if dsn == "" {
			dsn = ":memory:"
		}
		return sqlite.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// NewLogger build the named logger adapter writing to out
func NewLogger(name, level string, out io.Writer) (logger.Interface, error) {
	config := logger.Config{
		SlowThreshold: slowThreshold,
		LogLevel:      logger.ParseLevel(level),
	}

	switch strings.ToLower(name) {
	case "", "std":
		return logger.New(log.New(out, "\r\n", log.LstdFlags), config), nil
	case "zap":
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(out),
			logger.ZapLevel(config.LogLevel),
		)
		return logger.NewZapLogger(zap.New(core), config), nil
	case "zerolog":
		return logger.NewZerologConsoleLogger(out, config), nil
	case "slog":
		handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: logger.SlogLevel(config.LogLevel)})
		return logger.NewSlogLogger(slog.New(handler), config), nil
	case "logrus":
		l := logrus.New()
		l.SetOutput(out)
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true})
		return logger.NewLogrusLogger(l, config), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLogger, name)
}

// LoadRegistry read the schema file, adapt it to the dialect and build it
func LoadRegistry(settings *Settings, d dialects.Dialector) (*schema.Registry, error) {
	entities, err := schema.DecodeFile(settings.Schema)
	if err != nil {
		return nil, err
	}
	d.Adapt(entities)

	registry := schema.NewRegistry(schema.NamingStrategy{TablePrefix: settings.TablePrefix})
	if err := registry.Register(entities...); err != nil {
		return nil, err
	}
	if err := registry.Build(); err != nil {
		return nil, err
	}
	return registry, nil
}

// Connect open an engine for settings, logging to out.
// The caller closes the returned *sql.DB.
func Connect(settings *Settings, out io.Writer) (*relgraph.DB, *sql.DB, error) {
	if err := settings.Validate(); err != nil {
		return nil, nil, err
	}

	d, err := NewDialector(settings.Driver, settings.DSN)
	if err != nil {
		return nil, nil, err
	}
	lg, err := NewLogger(settings.Logger, settings.LogLevel, out)
	if err != nil {
		return nil, nil, err
	}
	registry, err := LoadRegistry(settings, d)
	if err != nil {
		return nil, nil, err
	}

	pool, sqlDB, err := dialects.Open(d)
	if err != nil {
		return nil, nil, err
	}
	db, err := relgraph.Open(pool, registry, relgraph.WithLogger(lg))
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	return db, sqlDB, nil
}
