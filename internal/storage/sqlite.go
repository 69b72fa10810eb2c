package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// SQLiteRepository stores transactions in a local sqlite file. Amounts are
// kept as decimal text so no precision is lost.
type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// sqlite serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunSQLiteMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, logger: logger.WithComponent(log.ComponentStorage)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const sqliteListQuery = `
	SELECT id, description, amount, type, category, date
	FROM transactions
	ORDER BY date DESC, id DESC`

func (r *SQLiteRepository) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, sqliteListQuery)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		var (
			t        core.Transaction
			amount   string
			typ      string
			category sql.NullString
			date     string
		)
		if err := rows.Scan(&t.ID, &t.Description, &amount, &typ, &category, &date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if err := t.Amount.Decimal.UnmarshalText([]byte(amount)); err != nil {
			return nil, fmt.Errorf("transaction %d amount %q: %w", t.ID, amount, err)
		}
		if t.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
		}
		t.Type = core.TransactionType(typ)
		t.Category = category.String
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, n core.NewTransaction) (core.Transaction, error) {
	if err := n.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t := n.Transaction(0)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (description, amount, type, category, date) VALUES (?, ?, ?, ?, ?)`,
		t.Description, t.Amount.String(), t.Type.String(), nullString(t.Category), t.Date.Key())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}

	r.logger.InfoContext(ctx, "Transaction saved to SQLite",
		log.FieldTxID, t.ID, log.FieldTxType, t.Type.String(), log.FieldAmount, t.Amount.String())
	return t, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %d: %w", id, ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
