package extract

import (
	"strings"

	"intakedocs/internal/schema"
)

// minClassificationScore is the minimum aggregate keyword count a document
// type must reach to be classified. Below it the document stays unknown
// rather than getting a low-confidence guess. The threshold is fixed and
// intentionally insensitive to document length.
const minClassificationScore = 2

// Classify scores the extracted text against each configured document
// type's keyword set and returns the best-scoring type identifier, or ""
// when no type reaches the minimum score. Each keyword occurrence counts
// individually, and ties break to the type configured first.
func Classify(text string, cfg *schema.ExtractionConfig) string {
	lower := strings.ToLower(text)

	best := ""
	bestScore := 0
	for _, dt := range cfg.DocumentTypes {
		score := 0
		for _, kw := range dt.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			score += strings.Count(lower, kw)
		}
		if score > bestScore {
			best = dt.ID
			bestScore = score
		}
	}

	if bestScore < minClassificationScore {
		return ""
	}
	return best
}
