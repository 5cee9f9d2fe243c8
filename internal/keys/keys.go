// Package keys loads the local identity from a secret file and derives
// the curve25519 key material needed to open private message content.
//
// The secret file is a legacy document padded with '#' comment lines
// warning the reader not to share it. Comment lines are stripped and the
// remainder is parsed with the legacy engine.
package keys

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"filippo.io/edwards25519"

	"github.com/offlog/legacyview/internal/privatebox"
	"github.com/offlog/legacyview/pkg/legacy"
)

const (
	feedSuffix = ".ed25519"
	feedSigil  = "@"
)

// Identity is a local keypair. Private is the full 64-byte ed25519
// private key (seed followed by public key).
type Identity struct {
	ID      string
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// SecretFileError occurs when a secret file cannot be read or decoded.
type SecretFileError struct {
	Path string
	Err  error
}

func (e *SecretFileError) Error() string {
	return fmt.Sprintf("failed to load secret file '%s': %v", e.Path, e.Err)
}

func (e *SecretFileError) Unwrap() error {
	return e.Err
}

// Generate creates a fresh identity.
func Generate() (*Identity, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Identity{
		ID:      feedSigil + base64.StdEncoding.EncodeToString(pub) + feedSuffix,
		Public:  pub,
		Private: priv,
	}, nil
}

// LoadSecret reads and decodes a secret file.
func LoadSecret(path string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SecretFileError{Path: path, Err: err}
	}
	id, err := ParseSecret(data)
	if err != nil {
		return nil, &SecretFileError{Path: path, Err: err}
	}
	return id, nil
}

// ParseSecret decodes the contents of a secret file.
func ParseSecret(data []byte) (*Identity, error) {
	doc, err := legacy.Parse(stripComments(data))
	if err != nil {
		return nil, err
	}

	curve := doc.Get("curve")
	if !curve.IsString() || curve.Str != "ed25519" {
		return nil, fmt.Errorf("unsupported curve in secret file")
	}

	priv := doc.Get("private")
	if !priv.IsString() {
		return nil, fmt.Errorf("secret file has no private key")
	}
	privBytes, err := base64.StdEncoding.DecodeString(strings.TrimSuffix(priv.Str, feedSuffix))
	if err != nil {
		return nil, fmt.Errorf("private key is not valid base64: %w", err)
	}
	if len(privBytes) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("private key is %d bytes, want %d", len(privBytes), ed25519.PrivateKeySize)
	}

	private := ed25519.PrivateKey(privBytes)
	public := private.Public().(ed25519.PublicKey)

	id := feedSigil + base64.StdEncoding.EncodeToString(public) + feedSuffix
	if claimed := doc.Get("id"); claimed.IsString() && claimed.Str != id {
		return nil, fmt.Errorf("secret file id does not match its private key")
	}

	return &Identity{ID: id, Public: public, Private: private}, nil
}

// stripComments removes lines whose first non-blank character is '#'.
func stripComments(data []byte) []byte {
	var out bytes.Buffer
	for _, line := range bytes.Split(data, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) > 0 && trimmed[0] == '#' {
			continue
		}
		out.Write(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}

// UnboxKey derives the curve25519 secret used to open private content:
// the clamped SHA-512 prefix of the ed25519 seed.
func (id *Identity) UnboxKey() privatebox.SecretKey {
	h := sha512.Sum512(id.Private.Seed())
	h[0] &= 248
	h[31] &= 127
	h[31] |= 64

	var sk privatebox.SecretKey
	copy(sk[:], h[:32])
	return sk
}

// CurvePublic converts the ed25519 public key to its curve25519 form,
// as used when addressing an envelope to this identity.
func (id *Identity) CurvePublic() (privatebox.PublicKey, error) {
	var pk privatebox.PublicKey

	point, err := new(edwards25519.Point).SetBytes(id.Public)
	if err != nil {
		return pk, fmt.Errorf("public key is not a valid edwards point: %w", err)
	}
	copy(pk[:], point.BytesMontgomery())
	return pk, nil
}
