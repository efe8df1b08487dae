// Package knowledge turns extracted text into structured records: named
// entities, document categories, key phrases and entity relationships.
//
// The whole package is a pure function of (text, config). Running it twice on
// the same input yields the same output, which the pipeline relies on for
// retries.
package knowledge

// Entity is a recognized span inside the source text.
type Entity struct {
	Text       string
	Label      string
	Start      int
	End        int
	Confidence float64
	Context    string
}

// Category is a whole-document classification label.
type Category struct {
	Name       string
	Confidence float64
	Keywords   []string
}

// Phrase is a salient phrase with its relevance score.
type Phrase struct {
	Text  string
	Score float64
}

// Relationship links two entities by their index into the extraction's
// entity slice. The store resolves indices to row ids after insert.
type Relationship struct {
	SourceIndex int
	TargetIndex int
	Type        string
	Confidence  float64
	Context     string
}

type Config struct {
	// CategoryThreshold drops classifications below this confidence.
	CategoryThreshold float64
	// MaxKeyPhrases bounds the retained top-K phrases.
	MaxKeyPhrases int
}

func (c Config) withDefaults() Config {
	if c.CategoryThreshold <= 0 {
		c.CategoryThreshold = 0.3
	}
	if c.MaxKeyPhrases <= 0 {
		c.MaxKeyPhrases = 10
	}
	return c
}

type Extraction struct {
	Entities      []Entity
	Categories    []Category
	Phrases       []Phrase
	Relationships []Relationship
}

// Extract runs the full knowledge stage over text.
func Extract(text string, cfg Config) Extraction {
	cfg = cfg.withDefaults()

	entities := ExtractEntities(text)
	return Extraction{
		Entities:      entities,
		Categories:    ClassifyContent(text, cfg.CategoryThreshold),
		Phrases:       ExtractKeyPhrases(text, cfg.MaxKeyPhrases),
		Relationships: ExtractRelationships(text, entities),
	}
}
