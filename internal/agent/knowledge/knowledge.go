// Package knowledge answers common visitor questions from a fixed, ordered topic list
// without calling any model.
package knowledge

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var defaultTopics []byte

// Topic is one canned answer guarded by a conjunction of match groups.
type Topic struct {
	Name   string     `yaml:"name"`
	Match  [][]string `yaml:"match"`
	Answer string     `yaml:"answer"`
}

// matches reports whether every group has at least one phrase contained in msg.
func (t Topic) matches(msg string) bool {
	if len(t.Match) == 0 {
		return false
	}
	for _, group := range t.Match {
		hit := false
		for _, phrase := range group {
			if phrase != "" && strings.Contains(msg, phrase) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// Base is an ordered list of topics. Earlier topics win on overlap.
type Base struct {
	topics []Topic
}

// Parse reads topics from YAML, preserving document order.
func Parse(data []byte) (*Base, error) {
	var topics []Topic
	if err := yaml.Unmarshal(data, &topics); err != nil {
		return nil, fmt.Errorf("parse knowledge topics: %w", err)
	}
	for i, t := range topics {
		if t.Name == "" || strings.TrimSpace(t.Answer) == "" || len(t.Match) == 0 {
			return nil, fmt.Errorf("knowledge topic %d is incomplete", i)
		}
		for j, group := range t.Match {
			for k, phrase := range group {
				topics[i].Match[j][k] = strings.ToLower(strings.TrimSpace(phrase))
			}
		}
		topics[i].Answer = strings.TrimSpace(t.Answer)
	}
	return &Base{topics: topics}, nil
}

// Default returns the embedded topic list.
func Default() *Base {
	b, err := Parse(defaultTopics)
	if err != nil {
		panic(err)
	}
	return b
}

// Lookup returns the first matching topic for text.
func (b *Base) Lookup(text string) (Topic, bool) {
	msg := strings.ToLower(strings.TrimSpace(text))
	if msg == "" {
		return Topic{}, false
	}
	for _, t := range b.topics {
		if t.matches(msg) {
			return t, true
		}
	}
	return Topic{}, false
}

// Answer returns the canned answer for text, if any.
func (b *Base) Answer(text string) (string, bool) {
	t, ok := b.Lookup(text)
	return t.Answer, ok
}

// Topics lists topic names in evaluation order.
func (b *Base) Topics() []string {
	names := make([]string, len(b.topics))
	for i, t := range b.topics {
		names[i] = t.Name
	}
	return names
}
