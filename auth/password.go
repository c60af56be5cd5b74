package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 16
	keyBytes   = 64
	iterations = 100000
)

// HashPassword derives a pbkdf2 key from the password under a fresh random
// salt and encodes it as "salt:hash" (both hex).
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(password), salt, iterations, keyBytes, sha512.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword recomputes the derivation with the stored salt and compares
// in constant time.
func VerifyPassword(password, stored string) bool {
	salt, want, ok := splitStored(stored)
	if !ok {
		return false
	}
	got := pbkdf2.Key([]byte(password), salt, iterations, keyBytes, sha512.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func splitStored(stored string) (salt, hash []byte, ok bool) {
	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return nil, nil, false
	}
	salt, err1 := hex.DecodeString(parts[0])
	hash, err2 := hex.DecodeString(parts[1])
	if err1 != nil || err2 != nil || len(hash) != keyBytes {
		return nil, nil, false
	}
	return salt, hash, true
}

// GenerateUserSecret returns 32 random bytes hex encoded.
func GenerateUserSecret() (string, error) {
	return randomHex(32)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.New("entropy source unavailable")
	}
	return hex.EncodeToString(buf), nil
}
