package util

import (
	"crypto/rand"
	"math/big"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ShortID returns n random uppercase base36 characters.
func ShortID(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(base36)))
	for i := range out {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		out[i] = base36[v.Int64()]
	}
	return string(out)
}
