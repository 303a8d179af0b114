package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/lib/pq"
	_ "github.com/lib/pq"
)

// InitDB opens the Postgres connection used by the relational store
// backend. Connection parameters come from the environment.
func InitDB() *sql.DB {
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	connStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		user, password, dbname, host, port)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Light load: a handful of kiosks and office browsers.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	return db
}

// PostgresStore maps the tabular contract onto relational tables: every
// logical table becomes one SQL table of text columns plus a serial "seq"
// column that preserves insert order.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ensureTable(ctx context.Context, name string, cols []string) error {
	defs := make([]string, 0, len(cols)+1)
	defs = append(defs, "seq BIGSERIAL PRIMARY KEY")
	for _, c := range cols {
		defs = append(defs, pq.QuoteIdentifier(c)+" TEXT NOT NULL DEFAULT ''")
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pq.QuoteIdentifier(name), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return storeErr("create table "+name, err)
	}
	return nil
}

func quotedList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pq.QuoteIdentifier(c)
	}
	return strings.Join(quoted, ", ")
}

func (s *PostgresStore) ReadTable(ctx context.Context, name string, cols []string) ([]Row, error) {
	if err := s.ensureTable(ctx, name, cols); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY seq",
		quotedList(cols), pq.QuoteIdentifier(name))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr("read "+name, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		cells := make(Row, len(cols))
		dest := make([]interface{}, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, storeErr("scan "+name, err)
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("read "+name, err)
	}
	if out == nil {
		out = []Row{}
	}
	return out, nil
}

func (s *PostgresStore) WriteTable(ctx context.Context, name string, rows []Row) error {
	cols, ok := TableColumns[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	if err := s.ensureTable(ctx, name, cols); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("write "+name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+pq.QuoteIdentifier(name)); err != nil {
		return storeErr("write "+name, err)
	}
	insert := insertStatement(name, cols)
	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, insert, rowArgs(row, len(cols))...); err != nil {
			return storeErr("write "+name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storeErr("write "+name, err)
	}
	return nil
}

func (s *PostgresStore) AppendRow(ctx context.Context, name string, row Row) error {
	return s.AppendRows(ctx, name, []Row{row})
}

func (s *PostgresStore) AppendRows(ctx context.Context, name string, rows []Row) error {
	cols, ok := TableColumns[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	if err := s.ensureTable(ctx, name, cols); err != nil {
		return err
	}
	insert := insertStatement(name, cols)
	for _, row := range rows {
		if _, err := s.db.ExecContext(ctx, insert, rowArgs(row, len(cols))...); err != nil {
			return storeErr("append "+name, err)
		}
	}
	return nil
}

func insertStatement(name string, cols []string) string {
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(name), quotedList(cols), strings.Join(placeholders, ", "))
}

func rowArgs(row Row, width int) []interface{} {
	padded := normalizeRow(row, width)
	args := make([]interface{}, width)
	for i, v := range padded {
		args[i] = v
	}
	return args
}
