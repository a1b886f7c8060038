// Package token generates opaque owner tokens for dashboard access.
package token

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

const ownerTokenLength = 24

// Generator produces collision-resistant opaque tokens.
type Generator struct {
	generate func() string
}

// NewGenerator builds a Generator with the default alphabet and length.
func NewGenerator() (*Generator, error) {
	generate, err := nanoid.Standard(ownerTokenLength)
	if err != nil {
		return nil, fmt.Errorf("init token generator: %w", err)
	}
	return &Generator{generate: generate}, nil
}

// NewOwnerToken returns a fresh owner token.
func (g *Generator) NewOwnerToken() string {
	return g.generate()
}
