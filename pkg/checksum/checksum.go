// Package checksum wraps SHA-256 digests rendered as lowercase hex.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-httpkit/pkg/numfmt"
)

// Size is the length of a rendered digest.
const Size = sha256.Size * 2

var ErrInvalid = errors.New("checksum: invalid sha-256 digest")

// Checksum is a SHA-256 digest. The zero value means "no checksum".
type Checksum struct {
	hex string
}

// Of hashes data.
func Of(data []byte) Checksum {
	sum := sha256.Sum256(data)
	return Checksum{hex: hex.EncodeToString(sum[:])}
}

// OfString hashes the UTF-8 bytes of s.
func OfString(s string) Checksum { return Of([]byte(s)) }

// Parse accepts a 64 character hex digest in any case.
func Parse(s string) (Checksum, error) {
	s = strings.TrimSpace(s)
	if len(s) != Size {
		return Checksum{}, fmt.Errorf("%w: length %d", ErrInvalid, len(s))
	}
	if !numfmt.IsHexadecimal(s) {
		return Checksum{}, fmt.Errorf("%w: non-hex characters", ErrInvalid)
	}
	return Checksum{hex: strings.ToLower(s)}, nil
}

func (c Checksum) String() string { return c.hex }

func (c Checksum) IsZero() bool { return c.hex == "" }

// Equal compares two digests.
func (c Checksum) Equal(other Checksum) bool { return c.hex == other.hex }

// Matches compares against a rendered digest, ignoring case.
func (c Checksum) Matches(s string) bool {
	return c.hex != "" && strings.EqualFold(c.hex, strings.TrimSpace(s))
}

// Verify reports whether data hashes to c.
func (c Checksum) Verify(data []byte) bool { return c.Equal(Of(data)) }

func (c Checksum) MarshalText() ([]byte, error) { return []byte(c.hex), nil }

// UnmarshalText validates the digest. An empty value decodes to the zero Checksum.
func (c *Checksum) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = Checksum{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
