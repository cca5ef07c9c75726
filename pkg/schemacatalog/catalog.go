// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package schemacatalog persists the identity of every message a
// process has parsed, so a long-running consumer does not need to
// re-parse schema text on every restart just to know which message
// versions it has already seen. It is deliberately separate from
// pkg/sendwire: the core codec has no notion of persistence.
package schemacatalog

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sendwire/sendwire/pkg/sendwire"
	"github.com/sendwire/sendwire/pkg/sendwirelog"
)

var ErrCatalogClosed = errors.New("[schemacatalog]> catalog already closed")

//go:embed migrations/sqlite3/*.sql
var migrationFiles embed.FS

// CatalogEntry is one recorded message identity.
type CatalogEntry struct {
	Name       string
	Version    uint32
	FieldCount int
	Hash       uint64
	LastSeen   time.Time
}

// Catalog is a SQLite-backed store of message identities. The zero
// value is not usable; construct one with Open.
type Catalog struct {
	db     *sqlx.DB
	closed bool
}

// Open opens (migrating to the latest schema version if needed) a
// catalog at dsn using driver, currently only "sqlite3".
func Open(driver, dsn string) (*Catalog, error) {
	if driver != "sqlite3" {
		return nil, fmt.Errorf("[schemacatalog]> unsupported driver %q", driver)
	}

	db, err := sqlx.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", dsn))
	if err != nil {
		return nil, fmt.Errorf("[schemacatalog]> open: %w", err)
	}
	// sqlite does not benefit from concurrent writers; serialize like
	// the teacher's repository connection does.
	db.SetMaxOpenConns(1)

	if err := migrateUp(db.DB); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("[schemacatalog]> migration driver: %w", err)
	}
	src, err := iofs.New(migrationFiles, "migrations/sqlite3")
	if err != nil {
		return fmt.Errorf("[schemacatalog]> migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("[schemacatalog]> migrate init: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("[schemacatalog]> migrate up: %w", err)
	}
	return nil
}

// Record upserts an entry for every message in reg, stamping the
// current time as last-seen.
func (c *Catalog) Record(reg *sendwire.Registry) error {
	if c.closed {
		return ErrCatalogClosed
	}
	for _, m := range reg.Messages() {
		query, args, err := sq.Insert("message").
			Columns("name", "version", "field_count", "hash", "last_seen").
			Values(m.Name(), m.Version(), len(m.Fields()), fmt.Sprintf("%x", m.Hash()), time.Now().UTC().Format(time.RFC3339)).
			Suffix("ON CONFLICT(name, version) DO UPDATE SET field_count = excluded.field_count, hash = excluded.hash, last_seen = excluded.last_seen").
			ToSql()
		if err != nil {
			return fmt.Errorf("[schemacatalog]> build upsert: %w", err)
		}
		if _, err := c.db.Exec(query, args...); err != nil {
			sendwirelog.Errorf("schemacatalog: recording (%s, %d): %v", m.Name(), m.Version(), err)
			return fmt.Errorf("[schemacatalog]> record (%s, %d): %w", m.Name(), m.Version(), err)
		}
	}
	return nil
}

// List returns every recorded message identity, ordered by name then
// version.
func (c *Catalog) List() ([]CatalogEntry, error) {
	if c.closed {
		return nil, ErrCatalogClosed
	}
	query, args, err := sq.Select("name", "version", "field_count", "hash", "last_seen").
		From("message").
		OrderBy("name ASC", "version ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("[schemacatalog]> build list query: %w", err)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("[schemacatalog]> list: %w", err)
	}
	defer rows.Close()

	var out []CatalogEntry
	for rows.Next() {
		var (
			name     string
			version  uint32
			fields   int
			hashHex  string
			lastSeen string
		)
		if err := rows.Scan(&name, &version, &fields, &hashHex, &lastSeen); err != nil {
			return nil, fmt.Errorf("[schemacatalog]> scan: %w", err)
		}
		var hash uint64
		if _, err := fmt.Sscanf(hashHex, "%x", &hash); err != nil {
			return nil, fmt.Errorf("[schemacatalog]> parse hash %q: %w", hashHex, err)
		}
		seen, err := time.Parse(time.RFC3339, lastSeen)
		if err != nil {
			return nil, fmt.Errorf("[schemacatalog]> parse last_seen %q: %w", lastSeen, err)
		}
		out = append(out, CatalogEntry{Name: name, Version: version, FieldCount: fields, Hash: hash, LastSeen: seen})
	}
	return out, rows.Err()
}

// Close releases the underlying database handle. Subsequent calls to
// Record or List return ErrCatalogClosed.
func (c *Catalog) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.db.Close()
}
