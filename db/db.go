// Package db provides database helpers and models
package db

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	// registers the dialects accepted by New
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

func ParseDialect(in string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(in)); d {
	case DialectSQLite, DialectPostgres, DialectMySQL:
		return d, nil
	case "sqlite":
		return DialectSQLite, nil
	case "postgresql":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unknown dialect %q. should be %q | %q | %q", in, DialectSQLite, DialectPostgres, DialectMySQL)
	}
}

func DefaultOptions() url.Values {
	return url.Values{
		// with this, multiple connections share a single data and schema cache.
		// see https://www.sqlite.org/sharedcache.html
		"cache": {"shared"},
		// with this, the db sleeps for a little while when locked. can prevent
		// a SQLITE_BUSY. see https://www.sqlite.org/c3ref/busy_timeout.html
		"_busy_timeout": {"30000"},
		"_journal_mode": {"WAL"},
		"_foreign_keys": {"true"},
	}
}

type DB struct {
	*gorm.DB
}

func New(dialect Dialect, dsn string) (*DB, error) {
	dsn, err := normaliseDSN(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("normalise dsn: %w", err)
	}
	db, err := gorm.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("with gorm: %w", err)
	}
	db.SetLogger(gormLogger{zap.S().Named("gorm")})
	if dialect == DialectSQLite {
		db.DB().SetMaxOpenConns(1)
	}
	return &DB{DB: db}, nil
}

// NewMock opens a fresh in memory database, private to the caller
func NewMock() (*DB, error) {
	return New(DialectSQLite, fmt.Sprintf("file:%s?mode=memory", uuid.NewString()))
}

func normaliseDSN(dialect Dialect, dsn string) (string, error) {
	switch dialect {
	case DialectSQLite:
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + DefaultOptions().Encode(), nil
	case DialectPostgres:
		if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
			return dsn, nil
		}
		return pq.ParseURL(dsn)
	case DialectMySQL:
		conf, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", err
		}
		conf.ParseTime = true
		conf.Loc = time.UTC
		return conf.FormatDSN(), nil
	default:
		return "", fmt.Errorf("unknown dialect %q", dialect)
	}
}

// WithTx runs cb in a transaction. if cb returns an error or panics, the
// transaction is rolled back
func (db *DB) WithTx(cb func(tx *DB) error) (err error) {
	tx := db.Begin()
	if err := tx.Error; err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()
	if err := cb(&DB{DB: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (db *DB) GetSetting(key SettingKey) (string, error) {
	var setting Setting
	err := db.
		Where(Setting{Key: key}).
		First(&setting).
		Error
	if err != nil && !gorm.IsRecordNotFoundError(err) {
		return "", err
	}
	return setting.Value, nil
}

func (db *DB) SetSetting(key SettingKey, value string) error {
	return db.
		Where(Setting{Key: key}).
		Assign(Setting{Value: value}).
		FirstOrCreate(&Setting{}).
		Error
}

// SessionSecret returns the key sessions are signed with, generating and
// storing one on first use. it's kept hex encoded since the settings column is
// text and postgres and mysql reject invalid utf-8
func (db *DB) SessionSecret() ([]byte, error) {
	encoded, err := db.GetSetting(SessionKey)
	if err != nil {
		return nil, fmt.Errorf("get session key: %w", err)
	}
	if encoded != "" {
		key, err := hex.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode session key: %w", err)
		}
		return key, nil
	}
	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return nil, errors.New("generate session key")
	}
	if err := db.SetSetting(SessionKey, hex.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("set session key: %w", err)
	}
	return key, nil
}

// IsNotFound reports whether err means the requested row doesn't exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsConstraint reports whether err is an integrity constraint violation
// from any of the supported drivers
func IsConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// class 23 is "integrity constraint violation"
		return pqErr.Code.Class() == "23"
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062, 1451, 1452:
			return true
		}
	}
	return false
}

type gormLogger struct {
	*zap.SugaredLogger
}

func (l gormLogger) Print(v ...interface{}) {
	l.Debug(gorm.LogFormatter(v...)...)
}
