// Package cryptox derives the salt/verifier pair sent during signup.
// The server never sees the password; it stores the verifier and later
// checks login proofs against it.
package cryptox

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/dmitrijs2005/hyperblog/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 32
	KeySize  = 32
)

// Credentials is the public part of a registration secret.
type Credentials struct {
	Salt     []byte
	Verifier []byte
}

// SaltHex and VerifierHex are the wire encodings used by the signup call.
func (c Credentials) SaltHex() string     { return hex.EncodeToString(c.Salt) }
func (c Credentials) VerifierHex() string { return hex.EncodeToString(c.Verifier) }

// DeriveKey stretches password with argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// NewCredentials generates a fresh salt and the matching verifier.
// The intermediate key is wiped before returning.
func NewCredentials(password []byte) Credentials {
	salt := common.GenerateRandByteArray(SaltSize)
	return credentialsWithSalt(password, salt)
}

func credentialsWithSalt(password []byte, salt []byte) Credentials {
	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)

	return Credentials{Salt: salt, Verifier: MakeVerifier(key)}
}
