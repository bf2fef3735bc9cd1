package facts

import (
	"fmt"
	"time"

	"github.com/ethanbaker/catfacts/pkg/utils"
	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenDatabase connects to MySQL when MYSQL_DATABASE is set, otherwise to the
// SQLite file named by SQLITE_PATH
func OpenDatabase(cfg *utils.Config) (*gorm.DB, error) {
	if cfg.Get("MYSQL_DATABASE") == "" {
		path := cfg.GetWithDefault("SQLITE_PATH", "cat_facts.db")
		utils.GetLogger().WithField("path", path).Info("MYSQL_DATABASE not set, using sqlite store")
		return OpenSQLite(SQLiteDSN(path))
	}

	dbConfig := mysql.Config{
		User:                 cfg.Get("MYSQL_USER"),
		Passwd:               cfg.Get("MYSQL_ROOT_PASSWORD"),
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("%s:%s", cfg.GetWithDefault("MYSQL_HOST", "localhost"), cfg.GetWithDefault("MYSQL_PORT", "3306")),
		DBName:               cfg.Get("MYSQL_DATABASE"),
		ParseTime:            true,
		AllowNativePasswords: true,
	}

	return OpenMySQL(dbConfig.FormatDSN())
}

// SQLiteDSN builds the DSN for a SQLite file. Writers wait on a locked database instead of
// failing, and transactions take the write lock when they begin.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", path)
}

// OpenMySQL opens a MySQL connection from a DSN
func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormmysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// OpenSQLite opens a SQLite database from a DSN (a file path or a file: URI)
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		// Surface unique and foreign key violations as gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated
		TranslateError: true,
		Logger: gormlogger.New(gormWriter{log: utils.GetLogger()}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// gormWriter forwards GORM output to logrus. GORM only prints errors, slow queries and
// warnings at the configured level, so everything is logged as a warning.
type gormWriter struct {
	log *logrus.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Warnf(format, args...)
}
