package ai

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// Prompt is one entry of the prompt catalog.
type Prompt struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	System      string `yaml:"system"`
	Template    string `yaml:"template"`

	tmpl *template.Template
}

// Catalog holds parsed prompts by name.
type Catalog struct {
	prompts map[string]*Prompt
}

var templateFuncs = template.FuncMap{
	"join":  strings.Join,
	"lower": strings.ToLower,
	"date": func(t time.Time) string {
		return t.UTC().Format("2006-01-02")
	},
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}

// DefaultCatalog parses the embedded prompts.yaml.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(defaultPrompts)
}

// LoadCatalog parses a YAML document of the form {prompts: [...]}.
func LoadCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Prompts []*Prompt `yaml:"prompts"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}

	c := &Catalog{prompts: make(map[string]*Prompt, len(doc.Prompts))}
	for _, p := range doc.Prompts {
		if p.Name == "" {
			return nil, fmt.Errorf("prompt catalog: entry without name")
		}
		if _, dup := c.prompts[p.Name]; dup {
			return nil, fmt.Errorf("prompt catalog: duplicate prompt %q", p.Name)
		}
		tmpl, err := template.New(p.Name).Funcs(templateFuncs).Option("missingkey=error").Parse(p.Template)
		if err != nil {
			return nil, fmt.Errorf("prompt %q: %w", p.Name, err)
		}
		p.tmpl = tmpl
		c.prompts[p.Name] = p
	}
	return c, nil
}

// Get returns the named prompt.
func (c *Catalog) Get(name string) (*Prompt, bool) {
	p, ok := c.prompts[name]
	return p, ok
}

// Render executes the prompt template against data.
func (p *Prompt) Render(data any) (string, error) {
	var sb strings.Builder
	if err := p.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", p.Name, err)
	}
	return strings.TrimSpace(sb.String()), nil
}
