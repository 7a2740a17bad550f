package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"text/template"
)

//go:embed templates
var embedded embed.FS

const (
	contextTemplate = "context.txt"
	verdictKey      = "verdict"
	introDir        = "intro"
)

var ErrNotFound = errors.New("prompt not found")

// Source resolves persona prompts, the verdict outcome text and intro
// scripts. Files in the override directory shadow the bundled ones.
type Source struct {
	layers []fs.FS
}

func NewSource(overrideDir string) *Source {
	bundled, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	layers := []fs.FS{bundled}
	if overrideDir != "" {
		layers = append([]fs.FS{os.DirFS(overrideDir)}, layers...)
	}
	return &Source{layers: layers}
}

// LoadPersonaPrompt returns the full system prompt for a persona: its role
// text rendered into the shared context template. The verdict key returns
// the outcome text as is.
func (s *Source) LoadPersonaPrompt(key string) (string, error) {
	if key == verdictKey {
		return s.read(key + ".txt")
	}

	role, err := s.read(key + ".txt")
	if err != nil {
		return "", err
	}
	raw, err := s.read(contextTemplate)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(contextTemplate).Option("missingkey=error").Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", contextTemplate, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Role string }{Role: role}); err != nil {
		return "", fmt.Errorf("render %s for %s: %w", contextTemplate, key, err)
	}
	return buf.String(), nil
}

func (s *Source) LoadIntroScript(personaKey string) (string, error) {
	return s.read(path.Join(introDir, personaKey+".txt"))
}

func (s *Source) read(name string) (string, error) {
	for _, layer := range s.layers {
		data, err := fs.ReadFile(layer, name)
		if err == nil {
			return strings.TrimSpace(string(data)), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}
