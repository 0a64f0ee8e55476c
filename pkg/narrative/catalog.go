package narrative

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplates []byte

type Kind string

const (
	KindChat       Kind = "chat"
	KindPrediction Kind = "prediction"
	KindTreatment  Kind = "treatment"
)

// Topic is the classified subject of a request. Each kind has its own finite
// set, and "general" is always the fallback.
type Topic string

const (
	TopicHeadache       Topic = "headache"
	TopicFever          Topic = "fever"
	TopicChestPain      Topic = "chest_pain"
	TopicViralInfection Topic = "viral_infection"
	TopicHypertension   Topic = "hypertension"
	TopicDiabetes       Topic = "diabetes"
	TopicGeneral        Topic = "general"
)

// Rule maps keywords to a reply template. A rule with neither Any nor All
// matches everything.
type Rule struct {
	Topic Topic    `yaml:"topic" json:"topic"`
	Any   []string `yaml:"any" json:"any,omitempty"`
	All   []string `yaml:"all" json:"all,omitempty"`
	Body  string   `yaml:"body" json:"-"`

	tmpl *template.Template
}

func (r Rule) fallback() bool {
	return len(r.Any) == 0 && len(r.All) == 0
}

func (r Rule) matches(lowered string) bool {
	if len(r.Any) > 0 {
		found := false
		for _, kw := range r.Any {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, kw := range r.All {
		if !strings.Contains(lowered, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

type Catalog struct {
	Chat       []Rule `yaml:"chat" json:"chat"`
	Prediction []Rule `yaml:"prediction" json:"prediction"`
	Treatment  []Rule `yaml:"treatment" json:"treatment"`
}

// Load reads a template catalog from path, or the built-in catalog when path
// is empty.
func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	return Parse(content)
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() Catalog {
	cat, err := Parse(defaultTemplates)
	if err != nil {
		panic(fmt.Sprintf("narrative: embedded templates invalid: %v", err))
	}
	return cat
}

// Parse decodes and compiles a catalog. Every kind needs at least one rule and
// must end with a keyword-free fallback.
func Parse(content []byte) (Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, fmt.Errorf("decoding narrative templates: %w", err)
	}
	for _, kind := range []Kind{KindChat, KindPrediction, KindTreatment} {
		rules := cat.rules(kind)
		if len(rules) == 0 {
			return Catalog{}, fmt.Errorf("narrative templates: no %s rules", kind)
		}
		if !rules[len(rules)-1].fallback() {
			return Catalog{}, fmt.Errorf("narrative templates: last %s rule must have no keywords", kind)
		}
		for i := range rules {
			if rules[i].Topic == "" {
				return Catalog{}, fmt.Errorf("narrative templates: %s rule %d has no topic", kind, i)
			}
			tmpl, err := template.New(string(kind) + "/" + string(rules[i].Topic)).
				Option("missingkey=zero").
				Parse(rules[i].Body)
			if err != nil {
				return Catalog{}, fmt.Errorf("narrative templates: %s/%s: %w", kind, rules[i].Topic, err)
			}
			rules[i].tmpl = tmpl
		}
	}
	return cat, nil
}

func (c Catalog) rules(kind Kind) []Rule {
	switch kind {
	case KindChat:
		return c.Chat
	case KindPrediction:
		return c.Prediction
	case KindTreatment:
		return c.Treatment
	default:
		return nil
	}
}

// Classify returns the topic of the first rule of kind matching text.
func (c Catalog) Classify(kind Kind, text string) Topic {
	rule, ok := c.match(kind, text)
	if !ok {
		return TopicGeneral
	}
	return rule.Topic
}

func (c Catalog) match(kind Kind, text string) (Rule, bool) {
	lowered := strings.ToLower(text)
	for _, rule := range c.rules(kind) {
		if rule.matches(lowered) {
			return rule, true
		}
	}
	return Rule{}, false
}

func (c Catalog) render(kind Kind, text string, data interface{}) (Topic, string, error) {
	rule, ok := c.match(kind, text)
	if !ok || rule.tmpl == nil {
		return "", "", fmt.Errorf("narrative templates: no %s template for input", kind)
	}
	var b strings.Builder
	if err := rule.tmpl.Execute(&b, data); err != nil {
		return "", "", fmt.Errorf("rendering %s/%s: %w", kind, rule.Topic, err)
	}
	return rule.Topic, b.String(), nil
}
