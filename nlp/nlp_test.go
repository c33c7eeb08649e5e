package nlp

import (
	"context"
	"strings"
	"testing"
)

func TestSegmentSentencesOffsets(t *testing.T) {
	text := "El contrato es válido. El consentimiento fue prestado libremente. Fin."
	sentences := SegmentSentences(text)
	if len(sentences) != 3 {
		t.Fatalf("got %d sentences, want 3: %+v", len(sentences), sentences)
	}
	for _, s := range sentences {
		if text[s.Start:s.End] != s.Text {
			t.Errorf("offset mismatch: text[%d:%d] = %q, Text = %q", s.Start, s.End, text[s.Start:s.End], s.Text)
		}
	}
	if sentences[0].Text != "El contrato es válido." {
		t.Errorf("first sentence = %q", sentences[0].Text)
	}
}

func TestSegmentSentencesAbbreviations(t *testing.T) {
	text := "Según el art. 1109 del código, responde el autor del daño."
	sentences := SegmentSentences(text)
	if len(sentences) != 1 {
		t.Errorf("abbreviation split the sentence: %+v", sentences)
	}
}

func TestSegmentSentencesDottedNumbers(t *testing.T) {
	text := "La Ley 19.550 regula las sociedades comerciales."
	sentences := SegmentSentences(text)
	if len(sentences) != 1 {
		t.Errorf("dotted number split the sentence: %+v", sentences)
	}
}

func TestSegmentSentencesEmpty(t *testing.T) {
	if got := SegmentSentences(""); len(got) != 0 {
		t.Errorf("empty text produced %d sentences", len(got))
	}
	if got := SegmentSentences("   \n  "); len(got) != 0 {
		t.Errorf("whitespace text produced %d sentences", len(got))
	}
}

func TestEnclosingSentence(t *testing.T) {
	text := "Primera oración. Segunda oración."
	sentences := SegmentSentences(text)
	if len(sentences) != 2 {
		t.Fatalf("got %d sentences", len(sentences))
	}

	pos := strings.Index(text, "Segunda")
	if got := EnclosingSentence(sentences, pos); got.Text != "Segunda oración." {
		t.Errorf("enclosing sentence = %q", got.Text)
	}
	if got := EnclosingSentence(sentences, len(text)+10); got.Text != "" {
		t.Errorf("out-of-range position returned %q", got.Text)
	}
}

func TestHeuristicRecognizerOrganizations(t *testing.T) {
	text := "El fallo fue dictado por la Corte Suprema de Justicia de la Nación en autos caratulados."
	entities, err := NewHeuristicRecognizer().Entities(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}

	var found *Entity
	for i := range entities {
		if strings.Contains(entities[i].Text, "Corte Suprema") {
			found = &entities[i]
		}
	}
	if found == nil {
		t.Fatalf("Corte Suprema not recognized: %+v", entities)
	}
	if found.Label != LabelOrganization {
		t.Errorf("label = %q, want %q", found.Label, LabelOrganization)
	}
	if text[found.Start:found.End] != found.Text {
		t.Errorf("offsets do not match surface text: %q vs %q", text[found.Start:found.End], found.Text)
	}
	if found.Sentence == "" {
		t.Error("entity carries no enclosing sentence")
	}
}

func TestHeuristicRecognizerPersons(t *testing.T) {
	text := "Compareció el Dr. Juan Martínez en representación de la actora."
	entities, err := NewHeuristicRecognizer().Entities(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entities {
		if strings.Contains(e.Text, "Juan Martínez") {
			if e.Label != LabelPerson {
				t.Errorf("label = %q, want %q", e.Label, LabelPerson)
			}
			return
		}
	}
	t.Errorf("Juan Martínez not recognized: %+v", entities)
}

func TestHeuristicRecognizerSkipsSentenceInitial(t *testing.T) {
	// "Los" opens the sentence capitalized but is not an entity.
	text := "Los contratos obligan a las partes."
	entities, err := NewHeuristicRecognizer().Entities(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entities {
		if e.Text == "Los" {
			t.Errorf("sentence-initial word recognized as entity: %+v", e)
		}
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare object", `{"entities":[]}`, `{"entities":[]}`},
		{"code fence", "```json\n{\"entities\":[]}\n```", `{"entities":[]}`},
		{"prose around", `Here is the result: {"entities":[]} hope it helps`, `{"entities":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.raw)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := extractJSON("no json here"); err == nil {
		t.Error("missing object must error")
	}
}
