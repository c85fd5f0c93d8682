package session

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/hkdf"
)

// tokenKeyPrefix is the Redis key prefix for stored bearer tokens.
const tokenKeyPrefix = "aisle:token:"

// TokenStore is the durable client storage of the session machine: a single
// key per browser session holding the marketplace bearer token. Nothing else
// is persisted. Load returns "" with a nil error when no token is stored.
type TokenStore interface {
	Save(ctx context.Context, sid, token string) error
	Load(ctx context.Context, sid string) (string, error)
	Delete(ctx context.Context, sid string) error
}

// RedisTokenStore stores tokens in Redis, AES-256-GCM encrypted at rest so
// a Redis dump doesn't leak live marketplace credentials. The key expires
// with the session TTL.
type RedisTokenStore struct {
	rdb  *redis.Client
	aead cipher.AEAD
	ttl  time.Duration
}

// NewRedisTokenStore creates a token store. The encryption key is derived
// from the application secret with HKDF-SHA256 so the secret itself is
// never used as key material directly.
func NewRedisTokenStore(rdb *redis.Client, secret string, ttl time.Duration) (*RedisTokenStore, error) {
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("aisle token storage"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("deriving token key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}

	return &RedisTokenStore{rdb: rdb, aead: aead, ttl: ttl}, nil
}

// Save encrypts and writes the token under the session's key, resetting the
// TTL.
func (s *RedisTokenStore) Save(ctx context.Context, sid, token string) error {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generating nonce: %w", err)
	}

	// Nonce is prepended to ciphertext: [nonce][ciphertext+tag]
	sealed := s.aead.Seal(nonce, nonce, []byte(token), nil)
	encoded := base64.RawStdEncoding.EncodeToString(sealed)

	if err := s.rdb.Set(ctx, tokenKeyPrefix+sid, encoded, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing token in redis: %w", err)
	}
	return nil
}

// Load reads and decrypts the stored token. Absent or undecryptable entries
// yield "" so the caller treats the session as having no stored credential.
func (s *RedisTokenStore) Load(ctx context.Context, sid string) (string, error) {
	encoded, err := s.rdb.Get(ctx, tokenKeyPrefix+sid).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading token from redis: %w", err)
	}

	sealed, err := base64.RawStdEncoding.DecodeString(encoded)
	if err != nil || len(sealed) < s.aead.NonceSize() {
		// A corrupted entry is unusable; treat it as absent rather than
		// wedging every resolution for this session.
		return "", nil
	}

	nonce, ct := sealed[:s.aead.NonceSize()], sealed[s.aead.NonceSize():]
	token, err := s.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", nil
	}
	return string(token), nil
}

// Delete removes the stored token.
func (s *RedisTokenStore) Delete(ctx context.Context, sid string) error {
	if err := s.rdb.Del(ctx, tokenKeyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("deleting token from redis: %w", err)
	}
	return nil
}
