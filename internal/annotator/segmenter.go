// Package annotator holds the annotators that populate a document before
// conversion: sentence segmentation, tokenization and part-of-speech tagging.
package annotator

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"annbridge/internal/annotation"
	"annbridge/internal/domain"
	"annbridge/internal/typesystem"
)

// New returns the annotator registered under name.
func New(name string) (domain.Annotator, error) {
	switch name {
	case "segmenter":
		return NewSentenceSegmenter(), nil
	case "tokenizer":
		return NewTokenizer(), nil
	case "pos-tagger", "pos":
		return NewPOSTagger(), nil
	default:
		return nil, fmt.Errorf("unknown annotator: %s", name)
	}
}

// SentenceSegmenter adds a Sentence annotation per sentence. A trailing
// fragment without terminal punctuation becomes a sentence too.
type SentenceSegmenter struct {
	splitter *regexp.Regexp
}

func NewSentenceSegmenter() *SentenceSegmenter {
	return &SentenceSegmenter{splitter: regexp.MustCompile(`[^.!?]+[.!?]+`)}
}

func (s *SentenceSegmenter) Name() string { return "segmenter" }

func (s *SentenceSegmenter) Process(ctx context.Context, doc *annotation.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text := doc.Text
	offs := annotation.RuneOffsets(text)
	locs := s.splitter.FindAllStringIndex(text, -1)
	last := 0
	if len(locs) > 0 {
		last = locs[len(locs)-1][1]
	}
	if strings.TrimSpace(text[last:]) != "" {
		locs = append(locs, []int{last, len(text)})
	}
	for _, loc := range locs {
		begin, end := trimSpan(text, loc[0], loc[1])
		if begin == end {
			continue
		}
		if _, err := doc.Add(typesystem.DKProSentence, offs[begin], offs[end], nil); err != nil {
			return err
		}
	}
	return nil
}

// trimSpan narrows a byte range to exclude surrounding whitespace.
func trimSpan(text string, begin, end int) (int, int) {
	s := text[begin:end]
	trimmedLeft := strings.TrimLeftFunc(s, unicode.IsSpace)
	begin += len(s) - len(trimmedLeft)
	end = begin + len(strings.TrimRightFunc(trimmedLeft, unicode.IsSpace))
	return begin, end
}
