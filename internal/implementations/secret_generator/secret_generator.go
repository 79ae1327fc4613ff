package secretgenerator

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"userkit/internal/core/domain/user"
)

// secretBytes gives 256 bits of entropy, twice the required floor.
const secretBytes = 32

// CryptoRandom produces single-use reset secrets from the operating
// system's CSPRNG. The base64 URL alphabet keeps them safe to embed in a
// reset link without further encoding. No state is kept between calls.
type CryptoRandom struct{}

func NewCryptoRandom() *CryptoRandom {
	return &CryptoRandom{}
}

func (g *CryptoRandom) GenerateResetSecret() user.ResetSecret {
	b := make([]byte, secretBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the platform is broken; producing a
		// guessable secret instead would be worse than crashing.
		panic(fmt.Sprintf("could not read random bytes: %v", err))
	}
	return user.ResetSecret(base64.RawURLEncoding.EncodeToString(b))
}
