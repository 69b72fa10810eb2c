package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// PostgresRepository stores transactions in PostgreSQL through a pgx pool.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgresRepository migrates the schema and opens a pool on dsn.
func NewPostgresRepository(ctx context.Context, dsn string, logger *log.Logger) (*PostgresRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := RunPostgresMigrations(dsn); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresRepository{pool: pool, logger: logger.WithComponent(log.ComponentStorage)}, nil
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, description, amount::text, type, category, date
		FROM transactions
		ORDER BY date DESC, id DESC`)
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
			category *string
			date     time.Time
		)
		if err := rows.Scan(&t.ID, &t.Description, &amount, &typ, &category, &date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if err := t.Amount.Decimal.UnmarshalText([]byte(amount)); err != nil {
			return nil, fmt.Errorf("transaction %d amount %q: %w", t.ID, amount, err)
		}
		t.Type = core.TransactionType(typ)
		if category != nil {
			t.Category = *category
		}
		t.Date = core.NewDate(date.Year(), int(date.Month()), date.Day())
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Create(ctx context.Context, n core.NewTransaction) (core.Transaction, error) {
	if err := n.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t := n.Transaction(0)

	var category *string
	if t.Category != "" {
		category = &t.Category
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (description, amount, type, category, date)
		VALUES ($1, $2::numeric, $3, $4, $5)
		RETURNING id`,
		t.Description, t.Amount.String(), t.Type.String(), category, t.Date.Time,
	).Scan(&t.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "Transaction saved to PostgreSQL",
		log.FieldTxID, t.ID, log.FieldTxType, t.Type.String(), log.FieldAmount, t.Amount.String())
	return t, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete %d: %w", id, ErrNotFound)
	}
	return nil
}
