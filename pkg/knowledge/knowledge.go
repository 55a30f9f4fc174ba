// Package knowledge serves ranked passages from per-property house manuals.
// Manuals are plain text files named "<property-id>_<slug>.txt" under
// data/house_manuals. Ranking is case-insensitive keyword overlap; an empty
// result is a valid answer meaning "no relevant context".
package knowledge

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const (
	chunkSize    = 500
	defaultTopK  = 8
	minWordLen   = 4 // words shorter than this carry no signal
	minChunkSize = 20
)

// Passage is one ranked manual excerpt.
type Passage struct {
	Text  string
	Score float64
}

// Base holds chunked manuals per property. Safe for concurrent reads after
// loading; AddPropertyDocuments may be called at any time.
type Base struct {
	mu     sync.RWMutex
	chunks map[string][]string
}

func NewBase() *Base {
	return &Base{chunks: make(map[string][]string)}
}

// Load reads every *.txt manual under dir. The property id is the filename
// prefix up to the first underscore. Missing dir is not an error; the base
// just starts empty.
func Load(dir string) *Base {
	b := NewBase()
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("[knowledge] house manuals directory not found: %s", dir)
		return b
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		propertyID := e.Name()
		if i := strings.Index(propertyID, "_"); i > 0 {
			propertyID = propertyID[:i]
		} else {
			propertyID = strings.TrimSuffix(propertyID, ".txt")
		}
		content, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Printf("[knowledge] could not read %s: %v", e.Name(), err)
			continue
		}
		b.AddPropertyDocuments(propertyID, []string{string(content)})
		log.Printf("[knowledge] loaded house manual for %s from %s", propertyID, e.Name())
	}
	return b
}

// AddPropertyDocuments chunks docs and indexes them under propertyID.
func (b *Base) AddPropertyDocuments(propertyID string, docs []string) {
	var chunks []string
	for _, doc := range docs {
		chunks = append(chunks, splitChunks(doc)...)
	}
	if len(chunks) == 0 {
		return
	}
	b.mu.Lock()
	b.chunks[propertyID] = append(b.chunks[propertyID], chunks...)
	b.mu.Unlock()
}

// Ready reports whether any manual has been indexed.
func (b *Base) Ready() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.chunks) > 0
}

// Query returns up to topK passages for the property ranked by keyword
// overlap with the question. Passages with zero overlap are dropped.
func (b *Base) Query(propertyID, question string) []Passage {
	b.mu.RLock()
	chunks := b.chunks[propertyID]
	b.mu.RUnlock()
	if len(chunks) == 0 {
		return nil
	}

	keywords := queryKeywords(question)
	if len(keywords) == 0 {
		return nil
	}

	var ranked []Passage
	for _, chunk := range chunks {
		score := overlapScore(chunk, keywords)
		if score > 0 {
			ranked = append(ranked, Passage{Text: chunk, Score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > defaultTopK {
		ranked = ranked[:defaultTopK]
	}
	return ranked
}

// splitChunks groups paragraphs into chunks of roughly chunkSize characters,
// never splitting inside a paragraph.
func splitChunks(doc string) []string {
	paras := strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n\n")
	var chunks []string
	var cur strings.Builder
	for _, p := range paras {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if cur.Len() > 0 && cur.Len()+len(p) > chunkSize {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(p)
	}
	if cur.Len() >= minChunkSize {
		chunks = append(chunks, cur.String())
	} else if cur.Len() > 0 && len(chunks) > 0 {
		chunks[len(chunks)-1] += "\n\n" + cur.String()
	}
	return chunks
}

func queryKeywords(question string) []string {
	fields := strings.Fields(strings.ToLower(question))
	var words []string
	for _, w := range fields {
		w = strings.Trim(w, "?!.,;:'\"")
		if len(w) >= minWordLen {
			words = append(words, w)
		}
	}
	return words
}

func overlapScore(chunk string, keywords []string) float64 {
	lower := strings.ToLower(chunk)
	hits := 0
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}
