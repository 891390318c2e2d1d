// Package chunker provides a sentence-respecting text chunker with word overlap.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/bizrag/internal/core/domain"
	"github.com/custodia-labs/bizrag/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// DefaultTargetSize is the default chunk length in characters.
const DefaultTargetSize = 800

// DefaultOverlap is the default overlap budget in characters.
const DefaultOverlap = 150

// DefaultMinLength is the default floor; chunks of this length or shorter are dropped.
const DefaultMinLength = 50

// charsPerWord converts the overlap budget into a number of carried-over words.
const charsPerWord = 6

// Processor splits normalised text into chunks of whole sentences.
type Processor struct {
	targetSize int
	overlap    int
	minLength  int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithTargetSize sets the target chunk length in characters.
func WithTargetSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.targetSize = size
		}
	}
}

// WithOverlap sets the overlap budget in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithMinLength sets the minimum chunk length floor.
func WithMinLength(minLength int) Option {
	return func(p *Processor) {
		if minLength >= 0 {
			p.minLength = minLength
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		targetSize: DefaultTargetSize,
		overlap:    DefaultOverlap,
		minLength:  DefaultMinLength,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// FromSettings creates a processor from chunker settings.
func FromSettings(s domain.ChunkerSettings) *Processor {
	return New(
		WithTargetSize(s.TargetSize),
		WithOverlap(s.Overlap),
		WithMinLength(s.MinLength),
	)
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "sentence-chunker"
}

// Chunk normalises text and groups its sentences into chunks.
//
// A sentence is never split: one longer than the target size becomes its own
// chunk. When a chunk is closed, the next one starts with the last
// overlap/6 words of it.
func (p *Processor) Chunk(text string) []string {
	sentences := SplitSentences(Normalise(text))
	if len(sentences) == 0 {
		return nil
	}

	carry := p.overlap / charsPerWord

	var (
		chunks  []string
		current string
		length  int
	)

	for _, sentence := range sentences {
		sentenceLen := utf8.RuneCountInString(sentence)

		if length+sentenceLen > p.targetSize && current != "" {
			chunks = append(chunks, strings.TrimSpace(current))

			if tail := lastWords(current, carry); tail != "" {
				current = tail + " " + sentence
			} else {
				current = sentence
			}
			length = utf8.RuneCountInString(current)
			continue
		}

		if current != "" {
			current += " "
		}
		current += sentence
		length += sentenceLen + 1
	}

	if last := strings.TrimSpace(current); last != "" {
		chunks = append(chunks, last)
	}

	kept := chunks[:0]
	for _, c := range chunks {
		if utf8.RuneCountInString(c) > p.minLength {
			kept = append(kept, c)
		}
	}
	return kept
}
