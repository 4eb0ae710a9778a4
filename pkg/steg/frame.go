package steg

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ProtocolVersion is the single supported wire version. Version 0 frames the
// payload as:
//
//	[1 byte version][4 bytes big-endian body length][body]
//
// where body is [12-byte nonce][ciphertext || 16-byte tag] produced by
// ChaCha20-Poly1305. The body length covers the encrypted body, not the
// plaintext. Unknown versions are rejected outright: the meaning of the
// length field is not guaranteed to survive a version bump.
const ProtocolVersion = 0

const (
	headerLen  = 5
	nonceLen   = chacha20poly1305.NonceSize
	tagLen     = chacha20poly1305.Overhead
	minBodyLen = nonceLen + tagLen
)

// FrameOverhead is the fixed number of bytes added to a payload by framing
// and encryption: header, nonce, and authentication tag.
const FrameOverhead = headerLen + minBodyLen

// defaultKey stands in for "no passphrase supplied". It is compiled into the
// binary and is not a secret: anyone with this source can decode messages
// encoded without a passphrase.
var defaultKey = []byte("lowkey-default-embedding-key-32b")

func deriveKey(passphrase string) []byte {
	if passphrase == "" {
		return defaultKey
	}
	sum := sha256.Sum256([]byte(passphrase))
	return sum[:]
}

// Seal encrypts payload under a key derived from passphrase and wraps the
// result in a version-0 frame ready for embedding.
func Seal(payload []byte, passphrase string) ([]byte, error) {
	aead, err := chacha20poly1305.New(deriveKey(passphrase))
	if err != nil {
		return nil, fmt.Errorf("encryption failed: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("encryption failed: %w", err)
	}
	body := aead.Seal(nonce, nonce, payload, nil)

	frame := make([]byte, headerLen, headerLen+len(body))
	frame[0] = ProtocolVersion
	binary.BigEndian.PutUint32(frame[1:headerLen], uint32(len(body)))
	return append(frame, body...), nil
}

// Open parses a complete frame and returns the decrypted payload.
func Open(frame []byte, passphrase string) ([]byte, error) {
	bodyLen, err := parseHeader(frame)
	if err != nil {
		return nil, err
	}
	body := frame[headerLen:]
	if len(body) < bodyLen {
		return nil, fmt.Errorf("%w: header declares %d body bytes, %d available", ErrTruncatedInput, bodyLen, len(body))
	}
	return openBody(body[:bodyLen], passphrase)
}

// parseHeader validates the 5-byte frame header and returns the declared
// body length.
func parseHeader(head []byte) (int, error) {
	if len(head) < headerLen {
		return 0, fmt.Errorf("%w: %d header bytes, need %d", ErrTruncatedInput, len(head), headerLen)
	}
	if head[0] != ProtocolVersion {
		return 0, fmt.Errorf("%w: got %d, this build speaks version %d", ErrUnsupportedVersion, head[0], ProtocolVersion)
	}
	return int(binary.BigEndian.Uint32(head[1:headerLen])), nil
}

// openBody decrypts an encrypted body. Bodies shorter than a nonce plus a
// tag are rejected before the cipher is touched.
func openBody(body []byte, passphrase string) ([]byte, error) {
	if len(body) < minBodyLen {
		return nil, fmt.Errorf("%w: %d bytes, minimum is %d (nonce plus tag)", ErrMalformedBody, len(body), minBodyLen)
	}
	aead, err := chacha20poly1305.New(deriveKey(passphrase))
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, body[:nonceLen], body[nonceLen:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed", ErrInvalidCiphertext)
	}
	return plaintext, nil
}
