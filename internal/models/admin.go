package models

import (
	"fmt"

	"github.com/elithrar/simple-scrypt"
)

// AdminGate guards the administrator area with a single shared code. The code is
// hashed on startup so that only the configuration file holds it in plain text.
//
// Note: This is a placeholder gate, not a security boundary - there is no per-user
// identity, no throttling and no lockout
type AdminGate struct {
	// The scrypt hash of the shared administrator code
	codeHash string
}

// NewAdminGate creates a gate for the given shared administrator code
func NewAdminGate(code string) (*AdminGate, error) {
	hash, err := scrypt.GenerateFromPassword([]byte(code), scrypt.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("NewAdminGate: Error during code hashing: %v", err)
	}
	return &AdminGate{codeHash: string(hash)}, nil
}

// Check reports whether the given code matches the configured administrator code
func (g *AdminGate) Check(code string) bool {
	return scrypt.CompareHashAndPassword([]byte(g.codeHash), []byte(code)) == nil
}
