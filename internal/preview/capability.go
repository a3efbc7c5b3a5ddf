package preview

import (
	"crypto/rand"
	"math/big"
)

// Capabilities is the per-panel capability object handed to the content
// generator. It is passed explicitly into every generation call rather than
// attached to shared state, so generating without one is unrepresentable.
// Never shared across panels, never persisted.
type Capabilities struct {
	// ResourceURI rewrites a local static resource name into a URI the
	// panel is allowed to load.
	ResourceURI func(name string) string
	// CSPSource is the origin token granted to images, styles and
	// connections in the panel's Content-Security-Policy.
	CSPSource string
	// ScriptNonce authorizes script tags under the CSP.
	ScriptNonce string
	// StyleNonce authorizes style tags under the CSP.
	StyleNonce string
}

const (
	nonceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	nonceLength   = 32
)

// NewNonce returns a 32-character alphanumeric token from a CSPRNG.
// Collisions are accepted as negligible and not defended against.
func NewNonce() string {
	max := big.NewInt(int64(len(nonceAlphabet)))
	buf := make([]byte, nonceLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform's entropy source is
			// broken; nothing sensible to degrade to.
			panic(err)
		}
		buf[i] = nonceAlphabet[n.Int64()]
	}
	return string(buf)
}
