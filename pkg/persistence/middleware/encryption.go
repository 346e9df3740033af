package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/parley-dev/parley/pkg/ports"
)

// EncryptionConfig holds the keys for at-rest blob encryption.
type EncryptionConfig struct {
	// ActiveKey encrypts new writes. Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are tried in order when decryption with the active key
	// fails. This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionStore struct {
	next   ports.BlobStore
	config EncryptionConfig
}

// NewEncryption creates a middleware that seals the blob with AES-GCM before
// it reaches the backend.
func NewEncryption(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.BlobStore) ports.BlobStore {
		return &encryptionStore{next: next, config: config}
	}
}

func (s *encryptionStore) Write(ctx context.Context, data []byte) error {
	sealed, err := encrypt(data, s.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt blob: %w", err)
	}
	return s.next.Write(ctx, sealed)
}

func (s *encryptionStore) Read(ctx context.Context) ([]byte, error) {
	sealed, err := s.next.Read(ctx)
	if err != nil {
		return nil, err
	}

	plain, err := decryptWithRotation(sealed, s.config.ActiveKey, s.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt blob: %w", err)
	}
	return plain, nil
}

func encrypt(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
