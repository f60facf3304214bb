package annotator

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"annbridge/internal/annotation"
	"annbridge/internal/typesystem"
)

// posTag is a DKPro POS subtype plus the Penn Treebank value stored in PosValue.
type posTag struct {
	pos   string
	value string
}

// POSTagger adds a DKPro POS annotation over every Token, using a closed
// class lexicon and suffix rules. Documents without tokens are left as
// they are, so the tokenizer has to run first.
type POSTagger struct {
	lexicon map[string]posTag
}

func NewPOSTagger() *POSTagger {
	return &POSTagger{lexicon: defaultLexicon()}
}

func (p *POSTagger) Name() string { return "pos-tagger" }

func (p *POSTagger) Process(ctx context.Context, doc *annotation.Document) error {
	sentenceStarts := make(map[int]struct{})
	for _, s := range doc.Select(typesystem.DKProSentence) {
		sentenceStarts[s.Begin()] = struct{}{}
	}
	for _, tok := range doc.Select(typesystem.DKProToken) {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, initial := sentenceStarts[tok.Begin()]
		pos, value := p.Tag(doc.CoveredText(tok.Span), initial)
		_, err := doc.Add(typesystem.DKProPOSType(pos), tok.Begin(), tok.End(),
			map[string]string{"PosValue": value})
		if err != nil {
			return err
		}
	}
	return nil
}

// Tag returns the DKPro POS subtype (such as "NN") and the tag value for
// one token.
func (p *POSTagger) Tag(word string, sentenceInitial bool) (pos, value string) {
	t := p.classify(word, sentenceInitial)
	return t.pos, t.value
}

func (p *POSTagger) classify(word string, sentenceInitial bool) posTag {
	lower := strings.ToLower(word)
	if t, ok := p.lexicon[lower]; ok {
		return t
	}
	first, _ := utf8.DecodeRuneInString(word)
	switch {
	case unicode.IsDigit(first):
		return posTag{"CARD", "CD"}
	case !unicode.IsLetter(first):
		return punctuation(word)
	case unicode.IsUpper(first) && !sentenceInitial:
		return posTag{"NP", "NNP"}
	case strings.HasSuffix(lower, "ly"):
		return posTag{"ADV", "RB"}
	case strings.HasSuffix(lower, "ing"):
		return posTag{"V", "VBG"}
	case strings.HasSuffix(lower, "ed"):
		return posTag{"V", "VBD"}
	case hasAnySuffix(lower, "ous", "ful", "able", "ible", "ive", "less", "ic", "al"):
		return posTag{"ADJ", "JJ"}
	case len(lower) > 3 && strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss"):
		return posTag{"NN", "NNS"}
	default:
		return posTag{"NN", "NN"}
	}
}

func punctuation(word string) posTag {
	switch word {
	case ".", "!", "?":
		return posTag{"PUNC", "."}
	case ",":
		return posTag{"PUNC", ","}
	case ":", ";", "-", "—":
		return posTag{"PUNC", ":"}
	default:
		return posTag{"O", "SYM"}
	}
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func defaultLexicon() map[string]posTag {
	classes := []struct {
		tag   posTag
		words []string
	}{
		{posTag{"ART", "DT"}, []string{"a", "an", "the", "this", "that", "these", "those"}},
		{posTag{"CONJ", "CC"}, []string{"and", "or", "but", "nor", "yet"}},
		{posTag{"CONJ", "IN"}, []string{"if", "than", "because", "while", "although"}},
		{posTag{"PP", "TO"}, []string{"to"}},
		{posTag{"PP", "IN"}, []string{"for", "of", "in", "on", "at", "by", "with", "as", "from", "up", "down", "over", "under", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off"}},
		{posTag{"PR", "PRP"}, []string{"i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us", "them"}},
		{posTag{"V", "VBZ"}, []string{"is", "has", "does"}},
		{posTag{"V", "VBP"}, []string{"are", "have", "do", "am"}},
		{posTag{"V", "VBD"}, []string{"was", "were", "had", "did"}},
		{posTag{"V", "VB"}, []string{"be"}},
		{posTag{"V", "VBN"}, []string{"been"}},
		{posTag{"V", "VBG"}, []string{"being"}},
		{posTag{"V", "MD"}, []string{"can", "will", "should", "would", "could", "may", "might", "must", "shall"}},
		{posTag{"ADV", "RB"}, []string{"again", "further", "then", "so", "too", "very", "just", "now", "not", "never"}},
		{posTag{"ADJ", "JJ"}, []string{"own", "same", "such", "other"}},
	}
	m := make(map[string]posTag)
	for _, c := range classes {
		for _, w := range c.words {
			m[w] = c.tag
		}
	}
	return m
}
