package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open dials the MySQL instance backing gigs, bands and contacts and
// pings it before handing the pool to the caller, so a misconfigured
// DSN fails at startup instead of on the first request.  parseTime maps
// DATETIME columns to time.Time and loc=UTC pins every scanned time to
// UTC; gig dates are compared as strings and must not drift with the
// server timezone.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// The save transaction holds a row lock across several statements,
	// so the pool keeps a modest ceiling rather than unbounded growth.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
