package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clarotrack/relay/internal/models"
)

const queryTimeout = 5 * time.Second

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

// CreateEvent appends one raw event to the events log.
func (r *PostgresRepository) CreateEvent(ctx context.Context, event *models.RawEvent) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if event.ID == "" {
		id, _ := uuid.NewV7()
		event.ID = id.String()
	}

	query := `
		INSERT INTO events
		(id, aid, event, path, user_agent, utm_source, utm_medium, utm_campaign, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		event.ID,
		event.AID,
		event.Event,
		event.Path,
		event.UserAgent,
		event.UTMSource,
		event.UTMMedium,
		event.UTMCampaign,
	).Scan(&event.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// ListForwardingRules returns active forwarding rules for one trigger
// event, compiled and ready for matching.
func (r *PostgresRepository) ListForwardingRules(ctx context.Context, listenEvent string) ([]*models.ForwardingRule, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, listen_event, fire_event, COALESCE(url_contains, ''),
		       params_map, active, created_at, updated_at
		FROM forwarding_rules
		WHERE active = TRUE AND listen_event = $1
	`

	rows, err := r.pool.Query(ctx, query, listenEvent)
	if err != nil {
		return nil, fmt.Errorf("failed to list forwarding rules: %w", err)
	}
	defer rows.Close()

	var rules []*models.ForwardingRule
	for rows.Next() {
		var rule models.ForwardingRule
		var paramsJSON []byte

		err := rows.Scan(
			&rule.ID,
			&rule.ListenEvent,
			&rule.FireEvent,
			&rule.URLContains,
			&paramsJSON,
			&rule.Active,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan forwarding rule: %w", err)
		}

		if len(paramsJSON) > 0 {
			if err := json.Unmarshal(paramsJSON, &rule.ParamsMap); err != nil {
				return nil, fmt.Errorf("failed to unmarshal params_map: %w", err)
			}
		}
		rule.Compile()

		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read forwarding rules: %w", err)
	}

	return rules, nil
}

// ListInstrumentationRules returns the active DOM-observation rules.
func (r *PostgresRepository) ListInstrumentationRules(ctx context.Context) ([]*models.InstrumentationRule, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, listen_event, COALESCE(selector, ''), COALESCE(url_contains, ''),
		       fire_event, params_map, COALESCE(custom_js, ''), active
		FROM instrumentation_rules
		WHERE active = TRUE
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list instrumentation rules: %w", err)
	}
	defer rows.Close()

	var rules []*models.InstrumentationRule
	for rows.Next() {
		var rule models.InstrumentationRule
		var paramsJSON []byte

		err := rows.Scan(
			&rule.ID,
			&rule.ListenEvent,
			&rule.Selector,
			&rule.URLContains,
			&rule.FireEvent,
			&paramsJSON,
			&rule.CustomJS,
			&rule.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instrumentation rule: %w", err)
		}

		if len(paramsJSON) > 0 {
			if err := json.Unmarshal(paramsJSON, &rule.ParamsMap); err != nil {
				return nil, fmt.Errorf("failed to unmarshal params_map: %w", err)
			}
		}

		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read instrumentation rules: %w", err)
	}

	return rules, nil
}
