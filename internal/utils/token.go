package utils

import (
	"crypto/rand"
	"math/big"
)

const tokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// TokenLength is the length of generated reference tokens.
const TokenLength = 8

// NewToken generates a short random base-36 token for customer ids and
// order confirmations. Tokens are not checked for collisions against
// existing rows.
func NewToken() string {
	max := big.NewInt(int64(len(tokenAlphabet)))
	token := make([]byte, TokenLength)
	for i := range token {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is
			// broken; there is no useful recovery here.
			panic(err)
		}
		token[i] = tokenAlphabet[n.Int64()]
	}
	return string(token)
}
