package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var (
	tableName  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
	columnName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// PostgresRepository reads the reference car dataset from PostgreSQL
type PostgresRepository struct {
	db      *sqlx.DB
	table   string
	orderBy string
}

// NewPostgresRepository creates a new PostgreSQL repository. orderBy names
// the column that keeps rows in file order; empty leaves the order to the server.
func NewPostgresRepository(dsn, table, orderBy string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute) // Shorter lifetime to avoid stale connections
	db.SetConnMaxIdleTime(2 * time.Minute) // Close idle connections sooner

	repo, err := NewPostgresRepositoryWithDB(db, table, orderBy)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewPostgresRepositoryWithDB wraps an existing connection pool
func NewPostgresRepositoryWithDB(db *sqlx.DB, table, orderBy string) (*PostgresRepository, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if orderBy != "" && !columnName.MatchString(orderBy) {
		return nil, fmt.Errorf("invalid order column %q", orderBy)
	}
	return &PostgresRepository{db: db, table: table, orderBy: orderBy}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// CarNames returns the name column of every dataset row. The table needs
// only the name column of the car details CSV.
func (r *PostgresRepository) CarNames(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT name
		FROM %s
		WHERE name IS NOT NULL
	`, r.table)
	if r.orderBy != "" {
		query += "ORDER BY " + r.orderBy
	}

	var names []string
	if err := r.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("failed to fetch car names: %w", err)
	}
	return names, nil
}
