package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/scmlegal/conceptor/llm"
)

// nerPrompt asks the model for a flat entity list. The task is kept atomic
// so small local models handle it reliably.
const nerPrompt = `You are a named-entity recognition engine for Spanish legal documents.
Extract all named entities from the text below.

ENTITY LABELS (use exactly these values):
- ORG  : a company, court, public body, or institution
- PER  : a named individual
- MISC : any other proper-noun entity (laws, places, doctrines)

Return a JSON object with exactly one key:
  "entities" : array of {"text": string, "label": string}

Rules:
- "text" must be an exact substring of the input.
- Only include entities clearly present in the text.
- If there are none, return an empty array.
- Do NOT include any text outside the JSON object.

TEXT:
%s`

// ChatRecognizer extracts entities with an LLM chat call. Offsets are
// resolved by first occurrence of the returned surface form; enclosing
// sentences come from the segmenter.
type ChatRecognizer struct {
	provider llm.Provider
}

// NewChatRecognizer creates an LLM-backed recognizer.
func NewChatRecognizer(p llm.Provider) *ChatRecognizer {
	return &ChatRecognizer{provider: p}
}

type nerResult struct {
	Entities []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	} `json:"entities"`
}

// Entities implements Recognizer.
func (c *ChatRecognizer) Entities(ctx context.Context, text string) ([]Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	resp, err := c.provider.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf(nerPrompt, text)},
		},
		Temperature:    0.0,
		ResponseFormat: "json_object",
	})
	if err != nil {
		return nil, fmt.Errorf("ner chat: %w", err)
	}

	jsonStr, err := extractJSON(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing ner result: %w", err)
	}

	var result nerResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("unmarshalling ner result: %w", err)
	}

	sentences := SegmentSentences(text)
	var entities []Entity
	for _, e := range result.Entities {
		surface := strings.TrimSpace(e.Text)
		if surface == "" {
			continue
		}
		start := strings.Index(text, surface)
		if start < 0 {
			// Model paraphrased instead of quoting; drop it.
			continue
		}
		entities = append(entities, Entity{
			Label:    normalizeLabel(e.Label),
			Text:     surface,
			Start:    start,
			End:      start + len(surface),
			Sentence: EnclosingSentence(sentences, start).Text,
		})
	}
	return entities, nil
}

func normalizeLabel(label string) string {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "ORG", "ORGANIZATION", "ORGANIZACION", "ORGANIZACIÓN":
		return LabelOrganization
	case "PER", "PERSON", "PERSONA":
		return LabelPerson
	default:
		return LabelMisc
	}
}

// codeBlockRe strips markdown code fences from LLM output.
var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// extractJSON finds a JSON object in the LLM response text, tolerating
// markdown code blocks and prose around the object.
func extractJSON(raw string) (string, error) {
	if m := codeBlockRe.FindStringSubmatch(raw); len(m) > 1 {
		raw = m[1]
	}

	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "{") {
		return raw, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1], nil
	}

	return "", fmt.Errorf("no JSON object found in response")
}
