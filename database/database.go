package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pr4th4meshh/respondly/config"
)

// Open connects to the SQLite3 database at cfg.DBUrl, applies pragmas
// and pool tuning, and runs pending migrations.
func Open(cfg config.Config) (db *sql.DB, err error) {
	db, err = sql.Open("sqlite3", dsn(cfg.DBUrl))
	if err != nil {
		return
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		db.Close()
		return
	}
	_, err = db.Exec("PRAGMA busy_timeout = 5000")
	if err != nil {
		db.Close()
		return
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return
	}

	return
}

// dsn asks for the write lock at transaction start, so a read-modify-
// write transaction cannot fail a lock upgrade mid-way.
func dsn(url string) string {
	if strings.Contains(url, "?") {
		return url + "&_txlock=immediate"
	}
	return url + "?_txlock=immediate"
}
