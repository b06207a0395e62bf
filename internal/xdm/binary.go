// xs:hexBinary / xs:base64Binary lexical-form round-tripping. Hex
// encoding is delegated to github.com/funvibe/funbit's bitstring
// builder/hex-dump helpers (the same "binary pattern matching"
// concern the teacher uses funbit for, repurposed here to XSD binary
// atomic values — see SPEC_FULL.md's domain-stack wiring). Base64 has
// no analogous third-party precedent in the retrieved pack and is a
// single well-defined stdlib algorithm, so encoding/base64 is used
// directly.
package xdm

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/funbit/pkg/funbit"
)

// EncodeHex renders data as an XSD hexBinary lexical form (uppercase,
// no separators).
func EncodeHex(data []byte) string {
	bs := funbit.NewBitStringFromBytes(data)
	dump := funbit.ToHexDump(bs)
	return strings.ReplaceAll(dump, " ", "")
}

// DecodeHex parses an XSD hexBinary lexical form.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("hexBinary must have an even number of digits")
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hexBinary digit at %d: %w", i*2, err)
		}
		out[i] = byte(v)
	}
	// Round-trip through funbit's bit-accounting so a malformed byte
	// count is caught the same way the teacher's protocol decoders
	// validate segment boundaries.
	bs := funbit.NewBitStringFromBytes(out)
	if bs.Length() != uint(len(out)*8) {
		return nil, fmt.Errorf("hexBinary decode produced an inconsistent bit length")
	}
	return out, nil
}

// EncodeBase64 renders data as an XSD base64Binary lexical form.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 parses an XSD base64Binary lexical form.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	return base64.StdEncoding.DecodeString(s)
}
