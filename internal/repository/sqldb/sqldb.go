// Package sqldb implements repository.Loader on database/sql. It is
// driver-agnostic over the destination choice: SQLite (modernc.org/
// sqlite, driver "sqlite") for local and test runs, MySQL
// (go-sql-driver/mysql, driver "mysql") for the shared destination.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"graphfeed/internal/domain"
	"graphfeed/internal/repository"
)

const (
	nodesTable = "nodes"
	edgesTable = "edges"
)

// Portable DDL: runs unchanged on SQLite and MySQL. Integrity between
// edges and nodes is enforced by load order, not a foreign key.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS nodes (
		id VARCHAR(32) PRIMARY KEY,
		ordinal SMALLINT NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS edges (
		from_node_id VARCHAR(32) NOT NULL,
		to_node_id VARCHAR(32) NOT NULL,
		weight SMALLINT NOT NULL,
		PRIMARY KEY (from_node_id, to_node_id)
	)`,
}

// Loader is the database/sql implementation of repository.Loader.
type Loader struct {
	db *sql.DB
}

// New opens the destination and ensures the schema exists. A
// destination that cannot be reached or prepared surfaces as
// repository.ErrLoad.
func New(driver, dsn string) (*Loader, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open destination: %w: %w", err, repository.ErrLoad)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach destination: %w: %w", err, repository.ErrLoad)
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ensure schema: %w: %w", err, repository.ErrLoad)
		}
	}
	return &Loader{db: db}, nil
}

// Close releases the destination connection.
func (l *Loader) Close() error {
	return l.db.Close()
}

// ReplaceNodes replaces the node table's content with nodes.
func (l *Loader) ReplaceNodes(ctx context.Context, nodes []domain.Node) (int, error) {
	rows := make([][]any, len(nodes))
	for i, n := range nodes {
		rows[i] = []any{n.ID, n.Ordinal, n.Name}
	}
	return l.replace(ctx, nodesTable, []string{"id", "ordinal", "name"}, rows)
}

// ReplaceEdges replaces the edge table's content with edges.
func (l *Loader) ReplaceEdges(ctx context.Context, edges []domain.Edge) (int, error) {
	rows := make([][]any, len(edges))
	for i, e := range edges {
		rows[i] = []any{e.From, e.To, e.Weight}
	}
	return l.replace(ctx, edgesTable, []string{"from_node_id", "to_node_id", "weight"}, rows)
}

// replace performs the full replace of one table inside a single
// transaction: delete everything, insert the batch, commit. Any error
// rolls the transaction back, leaving the prior contents untouched.
func (l *Loader) replace(ctx context.Context, table string, cols []string, rows [][]any) (count int, err error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w: %w", err, repository.ErrLoad)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return 0, fmt.Errorf("failed to clear %s: %w: %w", table, err, repository.ErrLoad)
	}

	stmt, err := tx.PrepareContext(ctx, insertQuery(table, cols))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert into %s: %w: %w", table, err, repository.ErrLoad)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			return 0, fmt.Errorf("failed to insert into %s: %w: %w", table, err, repository.ErrLoad)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit %s: %w: %w", table, err, repository.ErrLoad)
	}
	return len(rows), nil
}

// insertQuery builds the parameterized insert for a table. Table and
// column names are package constants, never external input.
func insertQuery(table string, cols []string) string {
	query := "INSERT INTO " + table + " ("
	for i, col := range cols {
		if i > 0 {
			query += ", "
		}
		query += col
	}
	query += ") VALUES ("
	for i := range cols {
		if i > 0 {
			query += ", "
		}
		query += "?"
	}
	return query + ")"
}
