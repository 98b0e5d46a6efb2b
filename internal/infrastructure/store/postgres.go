package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/smartsave/freshness/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS esl_updates (
    id UUID PRIMARY KEY,
    product_name VARCHAR(255) NOT NULL,
    sku VARCHAR(64),
    new_price DECIMAL(10, 2) NOT NULL,
    display_message TEXT,
    display_color VARCHAR(16) NOT NULL,
    actions JSONB NOT NULL DEFAULT '[]',
    applied_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS pricing_rules (
    id UUID PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    product VARCHAR(255) NOT NULL,
    category VARCHAR(32),
    condition VARCHAR(32) NOT NULL,
    threshold DECIMAL(10, 2) NOT NULL,
    adjustment DECIMAL(10, 2) NOT NULL,
    adjustment_type VARCHAR(16) NOT NULL,
    auto_apply BOOLEAN NOT NULL DEFAULT FALSE,
    summary JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_esl_updates_applied ON esl_updates(applied_at DESC);
CREATE INDEX IF NOT EXISTS idx_pricing_rules_created ON pricing_rules(created_at);
`

// PostgresStore persists ESL updates and pricing rules in PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and creates the tables if needed
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create pricing tables: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// SaveESLUpdate inserts an applied ESL update
func (s *PostgresStore) SaveESLUpdate(ctx context.Context, update *domain.ESLUpdate) error {
	actions, err := json.Marshal(nonNil(update.Draft.Actions))
	if err != nil {
		return fmt.Errorf("failed to encode actions: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO esl_updates (id, product_name, sku, new_price, display_message, display_color, actions, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		update.ID,
		update.Draft.ProductName,
		update.Draft.SKU,
		decimal.NewFromFloat(update.NewPrice).StringFixed(2),
		update.Draft.DisplayMessage,
		update.Draft.DisplayColor,
		actions,
		update.AppliedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ESL update: %w", err)
	}
	return nil
}

// SavePricingRule inserts a created pricing rule
func (s *PostgresStore) SavePricingRule(ctx context.Context, rule *domain.PricingRule) error {
	summary, err := json.Marshal(nonNil(rule.Summary))
	if err != nil {
		return fmt.Errorf("failed to encode rule summary: %w", err)
	}

	d := rule.Draft
	_, err = s.pool.Exec(ctx, `
		INSERT INTO pricing_rules (id, name, product, category, condition, threshold, adjustment, adjustment_type, auto_apply, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		rule.ID,
		d.Name,
		d.Product,
		d.Category,
		d.Condition,
		decimal.NewFromFloat(d.Threshold).StringFixed(2),
		decimal.NewFromFloat(d.Adjustment).StringFixed(2),
		d.AdjustmentType,
		d.AutoApply,
		summary,
		rule.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pricing rule: %w", err)
	}
	return nil
}

// ListPricingRules returns rules in creation order
func (s *PostgresStore) ListPricingRules(ctx context.Context) ([]domain.PricingRule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, name, product, COALESCE(category, ''), condition,
		       threshold::text, adjustment::text, adjustment_type, auto_apply, summary, created_at
		FROM pricing_rules
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pricing rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.PricingRule
	for rows.Next() {
		var (
			r                     domain.PricingRule
			threshold, adjustment string
			summary               []byte
		)
		if err := rows.Scan(
			&r.ID,
			&r.Draft.Name,
			&r.Draft.Product,
			&r.Draft.Category,
			&r.Draft.Condition,
			&threshold,
			&adjustment,
			&r.Draft.AdjustmentType,
			&r.Draft.AutoApply,
			&summary,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pricing rule: %w", err)
		}

		r.Draft.Threshold = decimalFloat(threshold)
		r.Draft.Adjustment = decimalFloat(adjustment)
		if err := json.Unmarshal(summary, &r.Summary); err != nil {
			return nil, fmt.Errorf("failed to decode rule summary: %w", err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pricing rules: %w", err)
	}

	return rules, nil
}

func decimalFloat(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
