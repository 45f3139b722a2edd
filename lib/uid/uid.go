package uid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"github.com/google/uuid"
	"strings"
)

const (
	// ByteLength is the number of random bytes a token is built from
	ByteLength = 16
	// Length is the length of a generated token in characters
	Length = ByteLength * 2
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IRandomSource fills byte slices with cryptographically random bytes
type IRandomSource interface {
	// Read fills b with random bytes and returns the number of bytes written
	Read(b []byte) (int, error)
}

// IUUIDSource is an optional extension of IRandomSource that generates random UUIDs directly
type IUUIDSource interface {
	// RandomUUID returns a random UUID in its canonical (hyphenated) form
	RandomUUID() (string, error)
}

// --------------------------------------------------------------------------
// Token generation
// --------------------------------------------------------------------------

// Generate creates a new session token from src.
// The UUID form is used when src implements IUUIDSource, the byte form otherwise.
func Generate(src IRandomSource) (string, error) {
	if uuidSrc, ok := src.(IUUIDSource); ok {
		id, err := uuidSrc.RandomUUID()
		if err != nil {
			return "", fmt.Errorf("failed to generate uuid: %w", err)
		}
		return strings.ReplaceAll(id, "-", ""), nil
	}

	b := make([]byte, ByteLength)
	n, err := src.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	if n != ByteLength {
		return "", fmt.Errorf("short read from random source: got %d of %d bytes", n, ByteLength)
	}
	return hex.EncodeToString(b), nil
}

// MustGenerate is like Generate but panics on error
func MustGenerate(src IRandomSource) string {
	token, err := Generate(src)
	if err != nil {
		panic(err)
	}
	return token
}

// --------------------------------------------------------------------------
// Sources
// --------------------------------------------------------------------------

// secureSource generates tokens from random UUIDs
type secureSource struct{}

// SecureSource returns the UUID backed random source
func SecureSource() IRandomSource {
	return secureSource{}
}

func (secureSource) Read(b []byte) (int, error) {
	return rand.Read(b)
}

func (secureSource) RandomUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// browserSource only provides random bytes
type browserSource struct{}

// BrowserSource returns the byte filling random source
func BrowserSource() IRandomSource {
	return browserSource{}
}

func (browserSource) Read(b []byte) (int, error) {
	return rand.Read(b)
}
