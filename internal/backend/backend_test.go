package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"fintrack/internal/config"
	"fintrack/internal/core"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"memory", Config{Type: MemoryBackend}, ""},
		{"unknown type", Config{Type: "sheets"}, "invalid backend type"},
		{"sqlite without path", Config{Type: SQLiteBackend}, "SQLite database path"},
		{"postgres without dsn", Config{Type: PostgresBackend}, "PostgreSQL DSN"},
		{"amqp without exchange", Config{Type: MemoryBackend, AMQPURL: "amqp://localhost"}, "AMQP exchange"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("nil config accepted")
	}
	c, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", AMQPExchange: "fintrack", AMQPRoutingKey: "transactions"})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if c.Type != SQLiteBackend || c.SQLiteDBPath != "x.db" {
		t.Errorf("FromAppConfig() = %+v", c)
	}
}

func TestCreateBackend(t *testing.T) {
	for _, cfg := range []Config{
		{Type: MemoryBackend},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "ledger.db")},
	} {
		t.Run(cfg.Type.String(), func(t *testing.T) {
			ctx := context.Background()
			res, err := NewFactory(nil).CreateBackend(ctx, cfg)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			defer res.Cleanup()

			_, err = res.Backend.Create(ctx, core.NewTransaction{
				Description: "Lunch", Amount: core.MustAmount("12"), Type: core.Expense, Date: core.NewDate(2024, 5, 1),
			})
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			sum, err := res.Backend.Summary(ctx)
			if err != nil || !sum.Expense.Equal(core.MustAmount("12")) {
				t.Errorf("Summary() = %+v, %v", sum, err)
			}
		})
	}
}
