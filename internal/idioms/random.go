package idioms

import (
	"regexp"

	"github.com/quellsec/quell/internal/types"
	"github.com/quellsec/quell/internal/window"
)

// CWE-330: weak randomness. A rand() call in a file that also draws from a
// cryptographic source is usually seeding jitter or test scaffolding, not
// key material. Lower confidence than the local idioms: the evidence is
// file-global.

var reCryptoSource = regexp.MustCompile(`/dev/urandom|\bgetrandom\s*\(|\barc4random\w*\s*\(|\bRAND_bytes\s*\(|\bgetentropy\s*\(|\bBCryptGenRandom\b`)

var CryptographicSourceUsed = Rule{
	Name:  "cryptographic_source_used",
	CWEs:  []string{"CWE-330"},
	Match: matchCryptographicSourceUsed,
}

func matchCryptographicSourceUsed(f types.Finding, src window.Lines) (bool, string, float64) {
	if !anyLine(src.All(), reCryptoSource) {
		return false, "", 0
	}
	return true, "cryptographic RNG source present in this file", 0.85
}
