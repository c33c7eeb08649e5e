package nlp

import "context"

// Entity labels. Only these three matter to the contextual matching method.
const (
	LabelOrganization = "ORG"
	LabelPerson       = "PER"
	LabelMisc         = "MISC"
)

// Entity is a named entity found in text, with byte offsets and the
// enclosing sentence for context.
type Entity struct {
	Label    string
	Text     string
	Start    int
	End      int
	Sentence string
}

// Recognizer extracts named entities from text. Implementations must be
// safe for concurrent use; a failing recognizer degrades the contextual
// matching method to zero matches without failing the extraction call.
type Recognizer interface {
	Entities(ctx context.Context, text string) ([]Entity, error)
}
