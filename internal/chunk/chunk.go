/*
Package chunk splits documents into overlapping, size-bounded chunks for embedding.
*/
package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	DefaultSize    = 1000
	DefaultOverlap = 100
)

// DefaultSeparators are tried in order; the empty separator splits into runes.
var DefaultSeparators = []string{"\n\n", "\n", ".", "!", "?", ";", ":", " ", ""}

// Document is raw text prior to chunking.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// Chunk is a slice of a Document ready for embedding.
type Chunk struct {
	// ID is derived from the document and position, so re-ingesting the same
	// document overwrites rather than duplicates.
	ID         string
	DocumentID string
	Index      int
	Text       string
	// Hash is the sha256 of Text.
	Hash     string
	Metadata map[string]string
}

type Settings struct {
	Size       int
	Overlap    int
	Separators []string
}

func DefaultSettings() Settings {
	return Settings{Size: DefaultSize, Overlap: DefaultOverlap, Separators: DefaultSeparators}
}

// Splitter cuts text recursively on the coarsest separator present, then merges
// the pieces back into chunks of at most Size runes sharing up to Overlap runes.
type Splitter struct {
	size       int
	overlap    int
	separators []string
}

func NewSplitter(s Settings) (*Splitter, error) {
	if s.Size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", s.Size)
	}
	if s.Overlap < 0 || s.Overlap >= s.Size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", s.Size, s.Overlap)
	}
	seps := s.Separators
	if len(seps) == 0 {
		seps = DefaultSeparators
	}
	return &Splitter{size: s.Size, overlap: s.Overlap, separators: seps}, nil
}

func (s *Splitter) SplitText(text string) []string {
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	var rest []string
	for i, candidate := range separators {
		if candidate == "" {
			sep = ""
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	var out, fitting []string
	for _, piece := range splitKeep(text, sep) {
		if utf8.RuneCountInString(piece) <= s.size {
			fitting = append(fitting, piece)
			continue
		}
		if len(fitting) > 0 {
			out = append(out, s.merge(fitting)...)
			fitting = nil
		}
		if len(rest) == 0 {
			out = append(out, hardSplit(piece, s.size)...)
			continue
		}
		out = append(out, s.split(piece, rest)...)
	}
	if len(fitting) > 0 {
		out = append(out, s.merge(fitting)...)
	}

	return out
}

func (s *Splitter) merge(pieces []string) []string {
	var docs, current []string
	total := 0

	for _, p := range pieces {
		n := utf8.RuneCountInString(p)
		if total+n > s.size && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
				docs = append(docs, doc)
			}
			for total > s.overlap || (total+n > s.size && total > 0) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}
		current = append(current, p)
		total += n
	}

	if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitKeep splits after each sep so no text is lost. An empty sep yields runes.
func splitKeep(text, sep string) []string {
	if sep == "" {
		out := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}
	parts := strings.SplitAfter(text, sep)
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	return parts
}

func hardSplit(text string, size int) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		out = append(out, string(runes[start:end]))
	}
	return out
}

// SplitDocuments chunks every document, copying its metadata onto each chunk.
func (s *Splitter) SplitDocuments(docs []Document) []Chunk {
	var chunks []Chunk
	for _, doc := range docs {
		docID := doc.ID
		if docID == "" {
			docID = Hash(doc.Text)[:16]
		}
		for i, text := range s.SplitText(doc.Text) {
			md := make(map[string]string, len(doc.Metadata)+1)
			for k, v := range doc.Metadata {
				md[k] = v
			}
			md["chunk_index"] = strconv.Itoa(i)

			chunks = append(chunks, Chunk{
				ID:         Hash(docID + "#" + strconv.Itoa(i))[:32],
				DocumentID: docID,
				Index:      i,
				Text:       text,
				Hash:       Hash(text),
				Metadata:   md,
			})
		}
	}
	return chunks
}

func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
