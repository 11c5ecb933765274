package staleness

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"maps"
	"os"
	"slices"
)

// Marker returns the content marker of the file at path.
func Marker(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Stamp digests markers and dependency stamps in key order. Every field is
// length-prefixed so that distinct inputs cannot collide by concatenation.
func Stamp(markers, depStamps map[string]string) string {
	h := sha256.New()
	buf := make([]byte, 0, 8)
	writeField := func(s string) {
		buf = binary.BigEndian.AppendUint64(buf[:0], uint64(len(s)))
		h.Write(buf)
		h.Write([]byte(s))
	}
	writeMap := func(m map[string]string) {
		writeField(string(binary.BigEndian.AppendUint64(nil, uint64(len(m)))))
		for _, k := range slices.Sorted(maps.Keys(m)) {
			writeField(k)
			writeField(m[k])
		}
	}

	writeMap(markers)
	writeMap(depStamps)
	return hex.EncodeToString(h.Sum(nil))
}
