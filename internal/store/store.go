package store

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const schema = `CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		actor TEXT,
		avatar_url TEXT,
		repo TEXT,
		created_at TEXT,
		payload TEXT
);`

func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "sql open")
	}
	// sqlite serializes writers anyway
	db.SetMaxOpenConns(1)
	if _, err := CreateTable(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create events table")
	}
	return db, nil
}

// CreateTable ignores an existing table.
func CreateTable(db *sql.DB) (sql.Result, error) {
	return db.Exec(schema)
}

func OpenRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errors.Wrapf(err, "redis ping %s", addr)
	}
	return rdb, nil
}
