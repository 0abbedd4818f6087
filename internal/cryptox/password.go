// Package cryptox implements the password schemes the account registry can
// store passwords with.
//
// The "plain" scheme keeps the password as entered, which is what existing
// stores contain. "argon2id" and "bcrypt" store a salted hash instead.
// VerifyPassword recognises the encoding of a stored value, so a registry
// may hold a mix of schemes while users migrate.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

type PasswordScheme string

const (
	SchemePlain    PasswordScheme = "plain"
	SchemeArgon2id PasswordScheme = "argon2id"
	SchemeBcrypt   PasswordScheme = "bcrypt"
)

const (
	argon2Prefix  = "$argon2id$"
	argon2SaltLen = 16
)

var ErrUnknownScheme = errors.New("unknown password scheme")

func ParseScheme(s string) (PasswordScheme, error) {
	switch p := PasswordScheme(strings.ToLower(strings.TrimSpace(s))); p {
	case SchemePlain, SchemeArgon2id, SchemeBcrypt:
		return p, nil
	case "":
		return SchemePlain, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
}

// DeriveKey stretches password with salt using argon2id.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// Hash encodes password for storage under the scheme.
func (p PasswordScheme) Hash(password string) (string, error) {
	switch p {
	case SchemePlain:
		return password, nil
	case SchemeArgon2id:
		salt := make([]byte, argon2SaltLen)
		if _, err := rand.Read(salt); err != nil {
			return "", err
		}
		key := DeriveKey([]byte(password), salt)
		enc := base64.RawStdEncoding
		return argon2Prefix + enc.EncodeToString(salt) + "$" + enc.EncodeToString(key), nil
	case SchemeBcrypt:
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		return string(h), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, string(p))
}

// SchemeOf reports which scheme produced a stored value.
func SchemeOf(stored string) PasswordScheme {
	switch {
	case strings.HasPrefix(stored, argon2Prefix):
		return SchemeArgon2id
	case strings.HasPrefix(stored, "$2a$"), strings.HasPrefix(stored, "$2b$"), strings.HasPrefix(stored, "$2y$"):
		return SchemeBcrypt
	}
	return SchemePlain
}

// VerifyPassword reports whether candidate matches the stored value.
func VerifyPassword(stored, candidate string) bool {
	switch SchemeOf(stored) {
	case SchemeArgon2id:
		parts := strings.Split(strings.TrimPrefix(stored, argon2Prefix), "$")
		if len(parts) != 2 {
			return false
		}
		enc := base64.RawStdEncoding
		salt, err := enc.DecodeString(parts[0])
		if err != nil {
			return false
		}
		want, err := enc.DecodeString(parts[1])
		if err != nil {
			return false
		}
		got := DeriveKey([]byte(candidate), salt)
		return subtle.ConstantTimeCompare(want, got) == 1
	case SchemeBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
