package uid

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{32}$`)

// fixedUUIDSource returns a predefined uuid
type fixedUUIDSource struct {
	id  string
	err error
}

func (f fixedUUIDSource) Read(b []byte) (int, error) {
	return 0, errors.New("Read should not be called when RandomUUID is available")
}

func (f fixedUUIDSource) RandomUUID() (string, error) {
	return f.id, f.err
}

// fixedByteSource copies predefined bytes
type fixedByteSource struct {
	data []byte
}

func (f fixedByteSource) Read(b []byte) (int, error) {
	return copy(b, f.data), nil
}

// TestGenerateFromUUID tests that the uuid form is preferred and hyphens are stripped
func TestGenerateFromUUID(t *testing.T) {
	src := fixedUUIDSource{id: "123e4567-e89b-12d3-a456-426614174000"}

	token, err := Generate(src)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if token != "123e4567e89b12d3a456426614174000" {
		t.Errorf("unexpected token %q", token)
	}
}

// TestGenerateFromBytes tests the byte fallback including zero padding of small bytes
func TestGenerateFromBytes(t *testing.T) {
	data := []byte{0x00, 0x01, 0x0a, 0xff, 0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70, 0x80, 0x90, 0xa0, 0xb0, 0x0c}
	token, err := Generate(fixedByteSource{data: data})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if token != "00010aff102030405060708090a0b00c" {
		t.Errorf("unexpected token %q", token)
	}
	if len(token) != Length {
		t.Errorf("token length = %d; want %d", len(token), Length)
	}
}

// TestGenerateShortRead tests that a source delivering too few bytes is rejected
func TestGenerateShortRead(t *testing.T) {
	if _, err := Generate(fixedByteSource{data: []byte{1, 2, 3}}); err == nil {
		t.Error("expected error for short read")
	}
}

// TestGenerateUUIDError tests that uuid errors are propagated
func TestGenerateUUIDError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := Generate(fixedUUIDSource{err: boom}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom error, got %v", err)
	}
}

// TestSources tests the built-in sources
func TestSources(t *testing.T) {
	sources := map[string]IRandomSource{
		"Secure":  SecureSource(),
		"Browser": BrowserSource(),
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			a := MustGenerate(src)
			b := MustGenerate(src)

			if !hexToken.MatchString(a) || !hexToken.MatchString(b) {
				t.Errorf("tokens must be 32 lowercase hex chars: %q, %q", a, b)
			}
			if a == b {
				t.Errorf("two tokens should differ, both are %q", a)
			}
		})
	}

	if _, ok := BrowserSource().(IUUIDSource); ok {
		t.Error("browser source must not provide the uuid form")
	}
	if _, ok := SecureSource().(IUUIDSource); !ok {
		t.Error("secure source must provide the uuid form")
	}

	// the byte form must really fill the buffer
	buf := make([]byte, ByteLength)
	if _, err := BrowserSource().Read(buf); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(buf, make([]byte, ByteLength)) {
		t.Error("browser source returned only zero bytes")
	}
}
