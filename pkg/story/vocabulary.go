package story

import (
	_ "embed"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/sebastiansucker/mAIrchen/pkg/processing/costs"
)

//go:embed data/grundwortschatz.md
var grundwortschatz string

// upperSectionHeader starts the grades 3 and 4 part of the list.
const upperSectionHeader = "### **Grundwortschatz für Jahrgangsstufen 3 und 4**"

var entryPattern = regexp.MustCompile(`(?m)^\s*-\s+(\S+)`)

// Vocabulary is a parsed Grundwortschatz list.
type Vocabulary struct {
	content string
	lower   string

	// words maps lowercase entries to their listed spelling.
	words    map[string]string
	patterns map[string]*regexp.Regexp
}

var defaultVocabulary = sync.OnceValue(func() *Vocabulary {
	return NewVocabulary(grundwortschatz)
})

// DefaultVocabulary returns the embedded list.
func DefaultVocabulary() *Vocabulary {
	return defaultVocabulary()
}

// NewVocabulary parses a markdown list. Every line of the form "- word"
// is an entry.
func NewVocabulary(content string) *Vocabulary {
	v := &Vocabulary{
		content:  content,
		words:    make(map[string]string),
		patterns: make(map[string]*regexp.Regexp),
	}

	if i := strings.Index(content, upperSectionHeader); i > 0 {
		v.lower = content[:i]
	} else {
		v.lower = content
	}

	for _, m := range entryPattern.FindAllStringSubmatch(content, -1) {
		word := m[1]
		key := strings.ToLower(word)
		v.words[key] = word
		v.patterns[key] = regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\w*\b`)
	}
	return v
}

// Section returns the part of the list shown to tier.
func (v *Vocabulary) Section(tier costs.AgeTier) string {
	if tier == costs.AgeTier12 {
		return v.lower
	}
	return v.content
}

// Len returns the number of distinct entries.
func (v *Vocabulary) Len() int {
	return len(v.words)
}

// Find returns the listed spelling of every entry that begins a word in
// text, sorted.
func (v *Vocabulary) Find(text string) []string {
	lower := strings.ToLower(text)

	found := make([]string, 0)
	for key, re := range v.patterns {
		if re.MatchString(lower) {
			found = append(found, v.words[key])
		}
	}
	sort.Strings(found)
	return found
}
