package extract

// Extractor turns decoded bulletin markup into a fragment Document.
// Implementations must be deterministic and free of side effects.
type Extractor interface {
	Extract(markup string) Document
}

var _ Extractor = TagTracker{}
