package settings

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const sealedPrefix = "sb1:"

var ErrBadSealKey = errors.New("token seal key must be 32 bytes, hex or base64")

// sealer encrypts values at rest with NaCl secretbox. A nil sealer stores plain text.
type sealer struct{ key [32]byte }

func newSealer(raw string) (*sealer, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var b []byte
	if h, err := hex.DecodeString(raw); err == nil {
		b = h
	} else if d, err := base64.StdEncoding.DecodeString(raw); err == nil {
		b = d
	}
	if len(b) != 32 {
		return nil, ErrBadSealKey
	}
	s := &sealer{}
	copy(s.key[:], b)
	return s, nil
}

func (s *sealer) seal(plain string) (string, error) {
	if s == nil {
		return plain, nil
	}
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(box), nil
}

// open returns ok=false for values that cannot be decrypted with this key.
func (s *sealer) open(stored string) (string, bool) {
	if !strings.HasPrefix(stored, sealedPrefix) {
		// plain value written before a key was configured
		return stored, s == nil
	}
	if s == nil {
		return "", false
	}
	box, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(stored, sealedPrefix))
	if err != nil || len(box) < 24 {
		return "", false
	}
	var nonce [24]byte
	copy(nonce[:], box[:24])
	plain, ok := secretbox.Open(nil, box[24:], &nonce, &s.key)
	if !ok {
		return "", false
	}
	return string(plain), true
}
