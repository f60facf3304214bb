// Package dump writes processed documents to disk as msgpack so a run can
// be inspected or re-converted later.
package dump

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"annbridge/internal/annotation"
)

// Ext is the file extension of dump files.
const Ext = ".msgpack"

var ErrEmptyItemID = errors.New("dump: document has no item id")

// Writer stores one file per item under a directory.
type Writer struct {
	dir string
}

// NewWriter creates dir if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Writer{dir: dir}, nil
}

// Path returns the file a document of itemID is written to.
func (w *Writer) Path(itemID string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(itemID)
	return filepath.Join(w.dir, name+Ext)
}

// Write replaces the dump of doc atomically.
func (w *Writer) Write(doc *annotation.Document) (err error) {
	if doc.ItemID == "" {
		return ErrEmptyItemID
	}
	f, err := os.CreateTemp(w.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if err = msgpack.NewEncoder(f).Encode(doc); err != nil {
		return fmt.Errorf("encode %s: %w", doc.ItemID, err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), w.Path(doc.ItemID))
}

// Read decodes one dump file.
func Read(path string) (*annotation.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var doc annotation.Document
	if err := msgpack.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &doc, nil
}

// ReadAll reads dump files and every dump file inside directories, in
// path order.
func ReadAll(paths ...string) ([]*annotation.Document, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*"+Ext))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	docs := make([]*annotation.Document, 0, len(files))
	for _, f := range files {
		doc, err := Read(f)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
