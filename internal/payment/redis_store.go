package payment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "payment:session:"

// redisTxRetries bounds optimistic-lock retries when two instances race
// on the same session key.
const redisTxRetries = 5

// RedisStore is the multi-instance Store backend. Sessions are stored as
// JSON under payment:session:<id>; terminal transitions run inside a
// WATCH/MULTI transaction so first-terminal-wins holds across processes.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

func sessionKey(id string) string {
	return redisKeyPrefix + id
}

// redisSession is the storage encoding of a Session. The public Session
// hides ProviderSessionID from API responses, but the store must keep it:
// hosted-checkout verification queries the provider by that id.
type redisSession struct {
	Session
	ProviderSessionID string `json:"provider_session_id,omitempty"`
}

func encodeSession(sess *Session) ([]byte, error) {
	return json.Marshal(redisSession{
		Session:           *sess,
		ProviderSessionID: sess.ProviderSessionID,
	})
}

func decodeSession(data []byte) (*Session, error) {
	var rec redisSession
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}

	sess := rec.Session
	sess.ProviderSessionID = rec.ProviderSessionID
	return &sess, nil
}

func (r *RedisStore) Put(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return ErrSessionNotFound
	}

	data, err := encodeSession(sess)
	if err != nil {
		return err
	}

	// No TTL: sessions outlive their usable window for audit.
	return r.client.Set(ctx, sessionKey(sess.ID), data, 0).Err()
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return decodeSession(data)
}

func (r *RedisStore) Transition(ctx context.Context, id string, from, to Status) (*Session, bool, error) {
	key := sessionKey(id)

	var (
		out     *Session
		swapped bool
	)

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		sess, err := decodeSession(data)
		if err != nil {
			return err
		}

		if sess.Status != from {
			out = sess
			return nil
		}

		if sess.Expired(time.Now()) {
			out = sess
			return ErrSessionExpired
		}

		sess.Status = to
		updated, err := encodeSession(sess)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		if err != nil {
			return err
		}

		out = sess
		swapped = true
		return nil
	}

	for i := 0; i < redisTxRetries; i++ {
		err := r.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			swapped = false
			continue
		}
		return out, swapped, err
	}

	return nil, false, redis.TxFailedErr
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
