// Package local reads items from plain text files on disk.
package local

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"annbridge/internal/annotation"
	"annbridge/internal/domain"
	"annbridge/internal/typesystem"
)

var ErrNoDocuments = errors.New("no .txt documents found")

// Source is an ItemSource over .txt files named by paths or glob patterns.
type Source struct {
	patterns []string
	types    *typesystem.Snapshot
}

func NewSource(patterns []string, types *typesystem.Snapshot) *Source {
	return &Source{patterns: patterns, types: types}
}

func (s *Source) TypeSystem(ctx context.Context) (*typesystem.Snapshot, error) {
	if s.types == nil {
		return nil, typesystem.ErrNotBound
	}
	return s.types, nil
}

// Items expands the patterns into .txt files, each listed once, sorted by
// path. A pattern matching nothing is taken as a literal path.
func (s *Source) Items(ctx context.Context) ([]domain.Item, error) {
	seen := make(map[string]struct{})
	var items []domain.Item
	for _, p := range s.patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, err
		}
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if !strings.HasSuffix(strings.ToLower(m), ".txt") {
				continue
			}
			abs, err := filepath.Abs(m)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[abs]; dup {
				continue
			}
			seen[abs] = struct{}{}
			items = append(items, domain.Item{ID: itemID(abs), URL: abs})
		}
	}
	if len(items) == 0 {
		return nil, ErrNoDocuments
	}
	sort.Slice(items, func(i, j int) bool { return items[i].URL < items[j].URL })
	return items, nil
}

func (s *Source) Document(ctx context.Context, item domain.Item) (*annotation.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(item.URL)
	if err != nil {
		return nil, err
	}
	return annotation.NewDocument(item.ID, string(data)), nil
}

// itemID is the file stem plus a short hash of the absolute path, so equal
// names in different directories stay apart.
func itemID(path string) string {
	h := sha1.Sum([]byte(path))
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return stem + "-" + hex.EncodeToString(h[:4])
}
