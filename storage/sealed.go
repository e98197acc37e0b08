package storage

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	saltKey     = "storage_salt"
	nonceLength = 24
)

var ErrCorrupted = errors.New("stored value cannot be decrypted")

// Sealed шифрует значения secretbox, ключ выводится из passphrase через argon2id.
// Соль хранится в том же хранилище в открытом виде
type Sealed struct {
	inner Storage
	key   [32]byte
}

func NewSealed(ctx context.Context, inner Storage, passphrase string) (*Sealed, error) {
	if passphrase == "" {
		return nil, errors.New("empty storage passphrase")
	}
	salt, err := loadSalt(ctx, inner)
	if err != nil {
		return nil, err
	}
	s := &Sealed{inner: inner}
	copy(s.key[:], argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, 32))
	return s, nil
}

func loadSalt(ctx context.Context, inner Storage) ([]byte, error) {
	raw, ok, err := inner.Get(ctx, saltKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage salt: %w", err)
	}
	if ok {
		salt, decErr := hex.DecodeString(raw)
		if decErr == nil && len(salt) == 16 {
			return salt, nil
		}
	}
	salt := make([]byte, 16)
	if _, err = rand.Read(salt); err != nil {
		return nil, err
	}
	if err = inner.Set(ctx, saltKey, hex.EncodeToString(salt)); err != nil {
		return nil, fmt.Errorf("failed to save storage salt: %w", err)
	}
	return salt, nil
}

func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(data) < nonceLength {
		return "", false, ErrCorrupted
	}
	var nonce [nonceLength]byte
	copy(nonce[:], data[:nonceLength])
	plain, opened := secretbox.Open(nil, data[nonceLength:], &nonce, &s.key)
	if !opened {
		return "", false, ErrCorrupted
	}
	return string(plain), true, nil
}

func (s *Sealed) Set(ctx context.Context, key, value string) error {
	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return err
	}
	sealed := secretbox.Seal(nonce[:], []byte(value), &nonce, &s.key)
	return s.inner.Set(ctx, key, base64.StdEncoding.EncodeToString(sealed))
}

func (s *Sealed) Remove(ctx context.Context, keys ...string) error {
	return s.inner.Remove(ctx, keys...)
}

func (s *Sealed) Close() error {
	return s.inner.Close()
}
