package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-details/internal/repository"
)

const keyPrefix = "secret"

// SecretStore keeps secrets as plain redis strings under "secret:<service>:<account>".
// Values never expire.
type SecretStore struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewSecretStore(client *redis.Client, logger zerolog.Logger) *SecretStore {
	return &SecretStore{
		client: client,
		logger: logger.With().Str("component", "SecretStore").Str("driver", "redis").Logger(),
	}
}

func NewConnection(addr string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, DB: db})
}

func secretKey(service, account string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, service, account)
}

func (s *SecretStore) Save(ctx context.Context, service, account, value string) error {
	key := secretKey(service, account)

	ok, err := s.client.SetNX(ctx, key, value, 0).Result()
	if err != nil {
		s.logger.Error().Ctx(ctx).Str("key", key).Err(err).Msg("secret write failed")
		return err
	}
	if !ok {
		s.logger.Warn().Ctx(ctx).Str("key", key).Msg("secret already exists, abort save")
		return repository.ErrSecretExists
	}
	return nil
}

func (s *SecretStore) Fetch(ctx context.Context, service, account string) (string, error) {
	key := secretKey(service, account)

	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		s.logger.Debug().Ctx(ctx).Str("key", key).Msg("secret not found")
		return "", repository.ErrSecretNotFound
	}
	if err != nil {
		s.logger.Error().Ctx(ctx).Str("key", key).Err(err).Msg("secret read failed")
		return "", err
	}
	return value, nil
}

// Update deletes then writes the key inside a WATCH transaction.
func (s *SecretStore) Update(ctx context.Context, service, account, value string) error {
	key := secretKey(service, account)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrSecretNotFound
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.Set(ctx, key, value, 0)
			return nil
		})
		return err
	}, key)
	if err != nil && !errors.Is(err, repository.ErrSecretNotFound) {
		s.logger.Error().Ctx(ctx).Str("key", key).Err(err).Msg("secret update failed")
	}
	return err
}

func (s *SecretStore) Close() error {
	return s.client.Close()
}
