// Package knowledge holds the static agricultural knowledge base used to
// answer common queries without calling the generative API.
package knowledge

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/krishimitra/server/internal/lang"
)

//go:embed data/knowledge.yaml
var knowledgeYAML []byte

// Entry is one keyword-to-answer record. Keywords are matched
// case-insensitively as substrings of the query.
type Entry struct {
	Keywords []string          `yaml:"keywords"`
	Response map[string]string `yaml:"response"`
}

// CropTip is a per-crop cultivation guide matched by crop name.
type CropTip struct {
	Name     string            `yaml:"name"`
	Response map[string]string `yaml:"response"`
}

type knowledgeFile struct {
	Entries []Entry   `yaml:"entries"`
	Crops   []CropTip `yaml:"crops"`
}

// Base is the loaded knowledge base. Read-only after Load.
type Base struct {
	entries []Entry
	crops   []CropTip
}

// Load parses the embedded knowledge base.
func Load() (*Base, error) {
	var file knowledgeFile
	if err := yaml.Unmarshal(knowledgeYAML, &file); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	if len(file.Entries) == 0 {
		return nil, fmt.Errorf("knowledge base has no entries")
	}
	return &Base{entries: file.Entries, crops: file.Crops}, nil
}

// MustLoad is Load for static data that is validated by tests; it panics on
// a malformed embedded file.
func MustLoad() *Base {
	b, err := Load()
	if err != nil {
		panic(err)
	}
	return b
}

// Find returns the canned answer for the first entry whose keywords appear
// in the query, in the requested language with English fallback. The empty
// string means no entry matched. First-match-in-list wins; there is no
// relevance ranking.
func (b *Base) Find(query, language string) string {
	lowered := strings.ToLower(query)
	for _, entry := range b.entries {
		for _, kw := range entry.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return localized(entry.Response, language)
			}
		}
	}
	return ""
}

// CropInfo returns cultivation tips for the first crop whose name appears
// in the query, with the same language fallback rule as Find.
func (b *Base) CropInfo(query, language string) string {
	lowered := strings.ToLower(query)
	for _, crop := range b.crops {
		if strings.Contains(lowered, crop.Name) {
			return localized(crop.Response, language)
		}
	}
	return ""
}

func localized(responses map[string]string, language string) string {
	if r, ok := responses[language]; ok && r != "" {
		return r
	}
	return responses[lang.Default]
}
