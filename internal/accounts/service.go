package accounts

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hledger-lit/hledger-lit/internal/model"
)

// MatchMode selects how category patterns are compared with account names.
type MatchMode string

const (
	// MatchSegment anchors the pattern alternatives to the whole top-level segment.
	MatchSegment MatchMode = "segment"
	// MatchExact compares the top-level segment literally with each alternative.
	MatchExact MatchMode = "exact"
	// MatchRegex searches the full account name with the unanchored pattern.
	MatchRegex MatchMode = "regex"
	// MatchSubstring looks for any alternative anywhere in the account name.
	MatchSubstring MatchMode = "substring"
)

// MatchModes lists the supported modes, default first.
var MatchModes = []MatchMode{MatchSegment, MatchExact, MatchRegex, MatchSubstring}

// ParseMatchMode validates a mode name. An empty name selects MatchSegment.
func ParseMatchMode(s string) (MatchMode, error) {
	if s == "" {
		return MatchSegment, nil
	}
	for _, m := range MatchModes {
		if string(m) == strings.ToLower(s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown match mode %q (want one of %v)", s, MatchModes)
}

type matchFunc func(name string) bool

// Classifier assigns account names to categories.
type Classifier struct {
	mode     MatchMode
	cats     Categories
	matchers map[model.Category]matchFunc
	tops     map[model.Category]*regexp.Regexp
}

// NewClassifier compiles the category patterns for the given mode.
func NewClassifier(cats Categories, mode MatchMode) (*Classifier, error) {
	c := &Classifier{
		mode:     mode,
		cats:     cats,
		matchers: make(map[model.Category]matchFunc, len(model.AllCategories)),
		tops:     make(map[model.Category]*regexp.Regexp, len(model.AllCategories)),
	}
	for _, cat := range model.AllCategories {
		pattern := cats.Pattern(cat)
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		fn, err := compile(pattern, mode)
		if err != nil {
			return nil, fmt.Errorf("compiling %s pattern %q: %w", cat, pattern, err)
		}
		c.matchers[cat] = fn

		top, err := regexp.Compile("^(?:" + strings.Join(topAlternatives(pattern, mode), "|") + ")$")
		if err != nil {
			return nil, fmt.Errorf("compiling %s pattern %q: %w", cat, pattern, err)
		}
		c.tops[cat] = top
	}
	return c, nil
}

// topAlternatives returns the pattern alternatives as regular expressions,
// quoting them in the literal modes.
func topAlternatives(pattern string, mode MatchMode) []string {
	if mode == MatchSegment || mode == MatchRegex {
		return Alternatives(pattern)
	}
	alts := literalAlternatives(pattern)
	for i, a := range alts {
		alts[i] = regexp.QuoteMeta(a)
	}
	return alts
}

func compile(pattern string, mode MatchMode) (matchFunc, error) {
	switch mode {
	case MatchSegment:
		re, err := regexp.Compile("^(?:" + strings.Join(Alternatives(pattern), "|") + ")$")
		if err != nil {
			return nil, err
		}
		return func(name string) bool { return re.MatchString(model.TopSegment(name)) }, nil
	case MatchExact:
		alts := literalAlternatives(pattern)
		return func(name string) bool {
			top := model.TopSegment(name)
			for _, a := range alts {
				if top == a {
					return true
				}
			}
			return false
		}, nil
	case MatchRegex:
		re, err := regexp.Compile(strings.Join(Alternatives(pattern), "|"))
		if err != nil {
			return nil, err
		}
		return re.MatchString, nil
	case MatchSubstring:
		alts := literalAlternatives(pattern)
		return func(name string) bool {
			for _, a := range alts {
				if strings.Contains(name, a) {
					return true
				}
			}
			return false
		}, nil
	default:
		return nil, fmt.Errorf("unknown match mode %q", mode)
	}
}

// Mode returns the configured match mode.
func (c *Classifier) Mode() MatchMode {
	return c.mode
}

// Categories returns the configured patterns.
func (c *Classifier) Categories() Categories {
	return c.cats
}

// Classify returns the first matching category in precedence order
// (income, other, expense, asset, liability).
func (c *Classifier) Classify(name string) (model.Category, bool) {
	for _, cat := range model.AllCategories {
		if fn, ok := c.matchers[cat]; ok && fn(name) {
			return cat, true
		}
	}
	return "", false
}

// ClassifyTop is Classify restricted to single-segment names that equal one of
// the category alternatives in full, whatever the match mode.
func (c *Classifier) ClassifyTop(name string) (model.Category, bool) {
	if !model.IsTopLevel(name) {
		return "", false
	}
	for _, cat := range model.AllCategories {
		if re, ok := c.tops[cat]; ok && re.MatchString(name) {
			return cat, true
		}
	}
	return "", false
}

// Matches reports whether name matches any of the given categories.
// With no categories, any configured category counts.
func (c *Classifier) Matches(name string, cats ...model.Category) bool {
	if len(cats) == 0 {
		_, ok := c.Classify(name)
		return ok
	}
	for _, cat := range cats {
		if fn, ok := c.matchers[cat]; ok && fn(name) {
			return true
		}
	}
	return false
}

// IsIncomeLike reports whether flows for name run upwards when negative.
func (c *Classifier) IsIncomeLike(name string) bool {
	cat, ok := c.Classify(name)
	return ok && (cat == model.CategoryIncome || cat == model.CategoryOther)
}

// IsTopLevel reports whether name is a single-segment account of a known category.
func (c *Classifier) IsTopLevel(name string) bool {
	return model.IsTopLevel(name) && c.Matches(name)
}

// Query builds the hledger account query terms selecting the given categories.
func (c *Classifier) Query(cats ...model.Category) []string {
	var terms []string
	for _, cat := range cats {
		pattern := c.cats.Pattern(cat)
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		switch c.mode {
		case MatchSegment:
			terms = append(terms, "^("+strings.Join(Alternatives(pattern), "|")+")(:|$)")
		case MatchExact:
			alts := literalAlternatives(pattern)
			for i, a := range alts {
				alts[i] = regexp.QuoteMeta(a)
			}
			terms = append(terms, "^("+strings.Join(alts, "|")+")(:|$)")
		case MatchRegex:
			terms = append(terms, strings.Join(Alternatives(pattern), "|"))
		case MatchSubstring:
			alts := literalAlternatives(pattern)
			for i, a := range alts {
				alts[i] = regexp.QuoteMeta(a)
			}
			terms = append(terms, strings.Join(alts, "|"))
		}
	}
	return terms
}
