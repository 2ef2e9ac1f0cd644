package persist

import (
	"fmt"
	"strconv"
	"strings"
)

// safeNameChars are the bytes that pass through a term-name escape
// unchanged. Everything else — path separators, control characters, and
// every non-ASCII byte of a multi-byte Japanese surface form — is
// percent-encoded byte-by-byte. The scheme is deterministic and invertible
// (spec §4.4, §9 "Unsafe term-as-filename"): EscapeTermName and
// UnescapeTermName round-trip exactly for any Go string whose escaped form
// is at most maxEscapedNameLength bytes, including one containing raw '%'
// or path separators.
const safeNameChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789._-"

var safeByte [256]bool

func init() {
	for i := 0; i < len(safeNameChars); i++ {
		safeByte[safeNameChars[i]] = true
	}
}

// EscapeTermName converts a raw surface-form term into a filesystem-safe
// basename (without extension). Byte-oriented, not rune-oriented: a
// multi-byte UTF-8 rune is escaped one byte at a time, which still
// round-trips exactly through UnescapeTermName.
func EscapeTermName(term string) string {
	var b strings.Builder
	b.Grow(len(term))
	for i := 0; i < len(term); i++ {
		c := term[i]
		if safeByte[c] {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// UnsafeNameError is returned by UnescapeTermName for an escaped name that
// exceeds maxEscapedNameLength or contains a truncated or invalid
// percent-escape. EscapeTermName never returns it and does not check the
// length of the name it produces.
type UnsafeNameError struct {
	Term   string
	Reason string
}

func (e *UnsafeNameError) Error() string {
	return fmt.Sprintf("persist: unsafe filename for term %q: %s", e.Term, e.Reason)
}

// maxEscapedNameLength is a conservative basename length bound shared by
// common filesystems (ext4, APFS, NTFS all allow at least 255 bytes).
const maxEscapedNameLength = 255

// UnescapeTermName recovers the original surface-form term from a name
// produced by EscapeTermName, so the query engine can map a query term back
// to the file it was written to (and vice versa: callers typically call
// EscapeTermName on the query term and open that file directly, but
// UnescapeTermName is provided for tooling that enumerates the tf/ and idf/
// directories and needs the original terms back).
func UnescapeTermName(escaped string) (string, error) {
	if len(escaped) > maxEscapedNameLength {
		return "", &UnsafeNameError{Term: escaped, Reason: "escaped name exceeds filesystem length limit"}
	}

	var b strings.Builder
	b.Grow(len(escaped))
	for i := 0; i < len(escaped); i++ {
		if escaped[i] != '%' {
			b.WriteByte(escaped[i])
			continue
		}
		if i+2 >= len(escaped) {
			return "", &UnsafeNameError{Term: escaped, Reason: "truncated percent-escape"}
		}
		n, err := strconv.ParseUint(escaped[i+1:i+3], 16, 8)
		if err != nil {
			return "", &UnsafeNameError{Term: escaped, Reason: "invalid percent-escape"}
		}
		b.WriteByte(byte(n))
		i += 2
	}
	return b.String(), nil
}
