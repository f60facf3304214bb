package domain

import (
	"context"

	"annbridge/internal/annotation"
	"annbridge/internal/typesystem"
)

// Annotation is a typed span of a document as seen by the converters.
// Offsets are character (rune) indices, 0 <= Begin <= End.
type Annotation interface {
	TypeName() string
	Begin() int
	End() int
	// Feature returns the string value of a feature by its short name.
	// An absent feature reports false, never an error.
	Feature(name string) (string, bool)
}

// Record is the flat external form of an annotation accepted by the remote
// annotation store.
type Record struct {
	TypeURI string `json:"type" msgpack:"type"`
	Label   string `json:"label" msgpack:"label"`
	Begin   int    `json:"start" msgpack:"start"`
	End     int    `json:"end" msgpack:"end"`
}

// Item identifies one document of an item list.
type Item struct {
	ID  string
	URL string
}

// UploadResult reports what a Sink did with a batch of records.
type UploadResult struct {
	Sent    int
	Skipped int
}

// ItemSource supplies the type system of a run and the documents to process.
type ItemSource interface {
	TypeSystem(ctx context.Context) (*typesystem.Snapshot, error)
	Items(ctx context.Context) ([]Item, error)
	Document(ctx context.Context, item Item) (*annotation.Document, error)
}

// Annotator adds annotations to a document.
type Annotator interface {
	Name() string
	Process(ctx context.Context, doc *annotation.Document) error
}

// Sink accepts converted records for an item. Records identical in type URI,
// label and span to ones already stored are not sent again.
type Sink interface {
	Upload(ctx context.Context, item Item, records []Record) (UploadResult, error)
}

// DocumentWriter persists processed documents for debugging.
type DocumentWriter interface {
	Write(doc *annotation.Document) error
}
