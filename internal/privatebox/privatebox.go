// Package privatebox implements the sealed envelope used for private
// message content: an ephemeral curve25519 key agreement wrapping a
// one-time body key, addressed to up to seven undisclosed recipients.
//
// Layout of a sealed envelope:
//
//	nonce (24) | ephemeral public key (32) | n key slots (49 each) | boxed body
//
// Each key slot is secretbox(recipient count || body key) under the
// shared secret between the ephemeral key and one recipient. Recipients
// are not listed anywhere: opening means trying each slot in order.
package privatebox

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/secretbox"
)

// MaxRecipients is the most recipients a single envelope can address.
const MaxRecipients = 7

const (
	nonceSize   = 24
	keySize     = 32
	slotSize    = 1 + keySize + secretbox.Overhead // 49
	headerSize  = nonceSize + keySize
	minimumSize = headerSize + slotSize + secretbox.Overhead
)

// SecretKey is a curve25519 scalar used to open envelopes.
type SecretKey [keySize]byte

// PublicKey is a curve25519 public key an envelope can be addressed to.
type PublicKey [keySize]byte

// Box seals message for the given recipients. The ephemeral key, nonce
// and body key are drawn fresh from crypto/rand for every call.
func Box(message []byte, recipients []PublicKey) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipients")
	}
	if len(recipients) > MaxRecipients {
		return nil, fmt.Errorf("%d recipients exceeds the maximum of %d", len(recipients), MaxRecipients)
	}

	var nonce [nonceSize]byte
	var ephemeral, bodyKey [keySize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}
	if _, err := rand.Read(ephemeral[:]); err != nil {
		return nil, err
	}
	if _, err := rand.Read(bodyKey[:]); err != nil {
		return nil, err
	}

	ephemeralPub, err := curve25519.X25519(ephemeral[:], curve25519.Basepoint)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, headerSize+len(recipients)*slotSize+len(message)+secretbox.Overhead)
	out = append(out, nonce[:]...)
	out = append(out, ephemeralPub...)

	keyInfo := make([]byte, 1+keySize)
	keyInfo[0] = byte(len(recipients))
	copy(keyInfo[1:], bodyKey[:])

	for _, recipient := range recipients {
		shared, err := curve25519.X25519(ephemeral[:], recipient[:])
		if err != nil {
			return nil, err
		}
		var slotKey [keySize]byte
		copy(slotKey[:], shared)
		out = secretbox.Seal(out, keyInfo, &nonce, &slotKey)
	}

	return secretbox.Seal(out, message, &nonce, &bodyKey), nil
}

// Open tries to unseal an envelope with key. The boolean result is
// false when the envelope is malformed or not addressed to this key;
// the two cases are indistinguishable on purpose.
func Open(sealed []byte, key SecretKey) ([]byte, bool) {
	if len(sealed) < minimumSize {
		return nil, false
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	shared, err := curve25519.X25519(key[:], sealed[nonceSize:headerSize])
	if err != nil {
		return nil, false
	}
	var slotKey [keySize]byte
	copy(slotKey[:], shared)

	slots := sealed[headerSize:]
	for i := 0; i < MaxRecipients && (i+1)*slotSize <= len(slots); i++ {
		slot := slots[i*slotSize : (i+1)*slotSize]
		keyInfo, ok := secretbox.Open(nil, slot, &nonce, &slotKey)
		if !ok {
			continue
		}

		count := int(keyInfo[0])
		if count < 1 || count > MaxRecipients {
			return nil, false
		}
		bodyStart := headerSize + count*slotSize
		if bodyStart+secretbox.Overhead > len(sealed) {
			return nil, false
		}

		var bodyKey [keySize]byte
		copy(bodyKey[:], keyInfo[1:])
		return secretbox.Open(nil, sealed[bodyStart:], &nonce, &bodyKey)
	}

	return nil, false
}
