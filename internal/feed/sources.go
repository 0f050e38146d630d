package feed

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Sources holds the endpoint URLs for the three data feeds.
type Sources struct {
	Tasks  string `json:"tasks"`
	Topics string `json:"topics"`
	Quiz   string `json:"quiz"`
}

const sourcesSchema = `{
	"type": "object",
	"required": ["tasks"],
	"properties": {
		"tasks":  {"type": "string", "format": "uri"},
		"topics": {"type": "string", "format": "uri"},
		"quiz":   {"type": "string", "format": "uri"}
	},
	"additionalProperties": false
}`

// LoadSources reads and validates a JSON sources manifest.
func LoadSources(path string) (Sources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sources{}, fmt.Errorf("reading sources manifest: %w", err)
	}
	return ParseSources(data)
}

// ParseSources validates manifest bytes against the sources schema and
// decodes them.
func ParseSources(data []byte) (Sources, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(sourcesSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return Sources{}, fmt.Errorf("validating sources manifest: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return Sources{}, fmt.Errorf("invalid sources manifest: %s", strings.Join(msgs, "; "))
	}

	var s Sources
	if err := json.Unmarshal(data, &s); err != nil {
		return Sources{}, fmt.Errorf("decoding sources manifest: %w", err)
	}
	return s, nil
}
