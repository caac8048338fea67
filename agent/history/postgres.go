package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/pattarapon/agentrun/agent/contract"
)

type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

type runRecord struct {
	bun.BaseModel `bun:"table:agent_runs,alias:r"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Task      string    `bun:"task,notnull"`
	State     string    `bun:"state,notnull"`
	Payload   []byte    `bun:"payload,type:jsonb,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// PostgresStore persists run history across sessions. The full AgentResult
// travels as a JSON payload; task and state are lifted into columns for
// ad-hoc querying.
type PostgresStore struct {
	db      *bun.DB
	timeout time.Duration
}

var _ contractx.History = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	store := &PostgresStore{db: db, timeout: timeout}
	if err := store.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.NewCreateTable().Model((*runRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create history table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, result *contractx.AgentResult) error {
	if result == nil {
		return contractx.ErrValidation
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	record := &runRecord{
		Task:      result.Task,
		State:     string(result.State),
		Payload:   payload,
		CreatedAt: result.CreatedAt,
	}
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return fmt.Errorf("insert run record: %w", err)
	}
	return nil
}

func (s *PostgresStore) All(ctx context.Context) ([]*contractx.AgentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var records []runRecord
	if err := s.db.NewSelect().Model(&records).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select run records: %w", err)
	}

	results := make([]*contractx.AgentResult, 0, len(records))
	for _, record := range records {
		var result contractx.AgentResult
		if err := json.Unmarshal(record.Payload, &result); err != nil {
			return nil, fmt.Errorf("decode run record id=%d: %w", record.ID, err)
		}
		results = append(results, &result)
	}
	return results, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
