package steg

import "errors"

// Sentinel errors for the failure modes of encoding and decoding. All are
// deterministic; none is worth retrying. Callers branch with errors.Is.
var (
	// ErrUnsupportedVersion means the embedded header carries a protocol
	// version this build does not speak.
	ErrUnsupportedVersion = errors.New("unsupported protocol version")

	// ErrTruncatedInput means a frame buffer ended before the length its
	// header declared.
	ErrTruncatedInput = errors.New("truncated frame")

	// ErrInvalidCiphertext means AEAD verification failed: wrong key or a
	// tampered body.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")

	// ErrMalformedBody means the encrypted body is shorter than a nonce
	// plus a tag and was rejected before reaching the cipher.
	ErrMalformedBody = errors.New("malformed encrypted body")

	// ErrMessageTooLarge means the framed payload does not fit the total
	// carrier capacity.
	ErrMessageTooLarge = errors.New("message too large for carriers")

	// ErrInsufficientData means the carriers ran out of pixel channels
	// before the declared payload was fully read.
	ErrInsufficientData = errors.New("insufficient embedded data")

	// ErrUnsupportedOutputFormat means a path names a lossy image format
	// that cannot hold LSB data.
	ErrUnsupportedOutputFormat = errors.New("unsupported output format")
)
