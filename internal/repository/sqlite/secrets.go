package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-details/internal/repository"
)

// SecretStore keeps small string secrets addressed by (service, account).
type SecretStore struct {
	DB  *sql.DB
	log zerolog.Logger
}

func NewSecretStore(db *sql.DB, logger zerolog.Logger) *SecretStore {
	logger = logger.With().Str("component", "SecretStore").Str("driver", "sqlite").Logger()
	return &SecretStore{DB: db, log: logger}
}

// Save inserts a new secret, returns repository.ErrSecretExists if one is already stored.
func (s *SecretStore) Save(ctx context.Context, service, account, value string) error {
	start := time.Now()

	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO secrets (service, account, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (service, account) DO NOTHING`,
		service, account, value, time.Now().UTC(),
	)
	if err != nil {
		s.log.Error().Err(err).Ctx(ctx).
			Str("account", account).
			Msg("failed to insert secret")
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		s.log.Warn().Ctx(ctx).
			Str("account", account).
			Msg("secret already exists, abort save")
		return repository.ErrSecretExists
	}

	s.log.Debug().Ctx(ctx).
		Str("account", account).
		Dur("duration", time.Since(start)).
		Msg("secret saved")
	return nil
}

// Fetch returns the stored value or repository.ErrSecretNotFound.
func (s *SecretStore) Fetch(ctx context.Context, service, account string) (string, error) {
	var value string
	err := s.DB.QueryRowContext(ctx,
		`SELECT value FROM secrets WHERE service = ? AND account = ?`,
		service, account,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		s.log.Debug().Ctx(ctx).
			Str("account", account).
			Msg("secret not found")
		return "", repository.ErrSecretNotFound
	}
	if err != nil {
		s.log.Error().Err(err).Ctx(ctx).
			Str("account", account).
			Msg("failed to query secret")
		return "", err
	}
	return value, nil
}

// Update deletes the old row and saves the new value in one transaction.
// Returns repository.ErrSecretNotFound when nothing was stored.
func (s *SecretStore) Update(ctx context.Context, service, account, value string) error {
	start := time.Now()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM secrets WHERE service = ? AND account = ?`,
		service, account,
	)
	if err != nil {
		s.log.Error().Err(err).Ctx(ctx).Msg("failed to delete secret")
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrSecretNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO secrets (service, account, value, updated_at) VALUES (?, ?, ?, ?)`,
		service, account, value, time.Now().UTC(),
	); err != nil {
		s.log.Error().Err(err).Ctx(ctx).Msg("failed to insert secret")
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit secret update: %w", err)
	}

	s.log.Debug().Ctx(ctx).
		Str("account", account).
		Dur("duration", time.Since(start)).
		Msg("secret updated")
	return nil
}
