package checkout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(cred *Credentials) (*PostgresStore, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(s.db, &postgres.Config{
		MigrationsTable: "checkout_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (s *PostgresStore) ClaimAttempt(ctx context.Context, key string, userID int64, transactionID string) (bool, *Attempt, error) {
	// Conditional insert: only a missing or previously failed attempt can be
	// (re)claimed. A concurrent duplicate loses the race and reads the winner.
	query := `INSERT INTO checkout_attempts (idempotency_key, user_id, transaction_id, status, state, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	          ON CONFLICT (idempotency_key) DO UPDATE
	          SET status = EXCLUDED.status, state = EXCLUDED.state, failure_reason = '', updated_at = NOW()
	          WHERE checkout_attempts.status = $6`

	res, err := s.db.ExecContext(ctx, query,
		key, userID, transactionID, AttemptInProgress, domain.StateValidating, AttemptFailed)
	if err != nil {
		return false, nil, fmt.Errorf("claim attempt: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, nil, fmt.Errorf("claim attempt rows: %w", err)
	}
	if affected == 1 {
		return true, nil, nil
	}

	existing, err := s.getAttempt(ctx, key)
	if err != nil {
		return false, nil, err
	}
	return false, existing, nil
}

func (s *PostgresStore) getAttempt(ctx context.Context, key string) (*Attempt, error) {
	query := `SELECT idempotency_key, user_id, transaction_id, status, state, order_id, failure_reason, created_at, updated_at
	          FROM checkout_attempts WHERE idempotency_key = $1`

	var a Attempt
	var orderID sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, key).Scan(
		&a.IdempotencyKey,
		&a.UserID,
		&a.TransactionID,
		&a.Status,
		&a.State,
		&orderID,
		&a.FailureReason,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query attempt: %w", err)
	}
	if orderID.Valid {
		a.OrderID = &orderID.Int64
	}
	return &a, nil
}

func (s *PostgresStore) SetState(ctx context.Context, key string, state domain.CheckoutState) error {
	query := `UPDATE checkout_attempts SET state = $2, updated_at = NOW() WHERE idempotency_key = $1`
	res, err := s.db.ExecContext(ctx, query, key, state)
	if err != nil {
		return fmt.Errorf("set attempt state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set attempt state rows: %w", err)
	}
	if affected == 0 {
		return ErrAttemptNotFound
	}
	return nil
}

// MarkCompleted finishes the attempt and records its outbox event in the same
// transaction, so a completed checkout can never lose its event.
func (s *PostgresStore) MarkCompleted(ctx context.Context, key string, orderID int64, event *OutboxEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin complete tx: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE checkout_attempts
	          SET status = $2, state = $3, order_id = $4, updated_at = NOW()
	          WHERE idempotency_key = $1`
	if _, err := tx.ExecContext(ctx, query, key, AttemptCompleted, domain.StateDone, orderID); err != nil {
		return fmt.Errorf("mark attempt completed: %w", err)
	}

	if event != nil {
		outboxQuery := `INSERT INTO checkout_outbox (aggregate_id, event_type, payload, created_at)
		                VALUES ($1, $2, $3, NOW())`
		if _, err := tx.ExecContext(ctx, outboxQuery, event.AggregateID, event.EventType, event.Payload); err != nil {
			return fmt.Errorf("insert outbox event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit complete tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) MarkFailed(ctx context.Context, key string, reason string) error {
	query := `UPDATE checkout_attempts
	          SET status = $2, state = $3, failure_reason = $4, updated_at = NOW()
	          WHERE idempotency_key = $1`
	if _, err := s.db.ExecContext(ctx, query, key, AttemptFailed, domain.StateIdle, reason); err != nil {
		return fmt.Errorf("mark attempt failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `SELECT id, aggregate_id, event_type, payload, created_at
	          FROM checkout_outbox WHERE processed_at IS NULL
	          ORDER BY id LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return events, nil
}

func (s *PostgresStore) MarkEventAsProcessed(ctx context.Context, eventID int64) error {
	query := `UPDATE checkout_outbox SET processed_at = NOW() WHERE id = $1`
	if _, err := s.db.ExecContext(ctx, query, eventID); err != nil {
		return fmt.Errorf("mark outbox event processed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
