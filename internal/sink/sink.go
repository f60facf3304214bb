// Package sink holds the record deduplication shared by the upload sinks.
// Implementations live in the subpackages.
package sink

import (
	"encoding/hex"
	"strconv"

	"github.com/zeebo/blake3"

	"annbridge/internal/domain"
)

// Fingerprint identifies a record by type URI, label and span.
func Fingerprint(r domain.Record) string {
	h := blake3.New()
	_, _ = h.Write([]byte(r.TypeURI))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(r.Label))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strconv.Itoa(r.Begin)))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strconv.Itoa(r.End)))
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// Seen is a set of record fingerprints.
type Seen map[string]struct{}

// NewSeen returns a set holding the fingerprints of existing.
func NewSeen(existing []domain.Record) Seen {
	s := make(Seen, len(existing))
	for _, r := range existing {
		s[Fingerprint(r)] = struct{}{}
	}
	return s
}

// Filter returns the records not yet in the set, adding them to it.
// Duplicates inside records are dropped as well.
func (s Seen) Filter(records []domain.Record) (fresh []domain.Record, skipped int) {
	for _, r := range records {
		fp := Fingerprint(r)
		if _, dup := s[fp]; dup {
			skipped++
			continue
		}
		s[fp] = struct{}{}
		fresh = append(fresh, r)
	}
	return fresh, skipped
}
