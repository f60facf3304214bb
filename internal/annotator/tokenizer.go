package annotator

import (
	"context"
	"regexp"

	"annbridge/internal/annotation"
	"annbridge/internal/typesystem"
)

// Tokenizer adds Token annotations for words, numbers and single
// punctuation marks.
type Tokenizer struct {
	tokenPattern *regexp.Regexp
}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+(?:[.,]\p{N}+)*|[^\s\p{L}\p{N}]`),
	}
}

func (t *Tokenizer) Name() string { return "tokenizer" }

func (t *Tokenizer) Process(ctx context.Context, doc *annotation.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	offs := annotation.RuneOffsets(doc.Text)
	for _, loc := range t.tokenPattern.FindAllStringIndex(doc.Text, -1) {
		if _, err := doc.Add(typesystem.DKProToken, offs[loc[0]], offs[loc[1]], nil); err != nil {
			return err
		}
	}
	return nil
}
