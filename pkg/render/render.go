// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var builtinFS embed.FS

// ErrTemplateNotFound is returned by Render when no template with the
// requested name is loaded.
var ErrTemplateNotFound = errors.New("template not found")

// Store holds the named templates available to relay requests. Built-in
// templates ship with the binary; an optional directory overlays them so
// operators can add or replace templates without rebuilding.
type Store struct {
	templates map[string]*template.Template
	log       *zap.SugaredLogger
}

// NewStore loads the built-in templates and, when dir is non-empty, overlays
// every *.html file found there. Template names are file names without the
// .html suffix.
func NewStore(dir string, log *zap.SugaredLogger) (*Store, error) {
	s := &Store{
		templates: map[string]*template.Template{},
		log:       log.Named("render"),
	}

	builtin, err := fs.Glob(builtinFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	for _, path := range builtin {
		data, err := builtinFS.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := s.add(templateName(path), string(data)); err != nil {
			return nil, err
		}
	}

	if dir != "" {
		matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			data, err := os.ReadFile(match)
			if err != nil {
				return nil, fmt.Errorf("read template %s: %w", match, err)
			}
			name := templateName(match)
			if _, exists := s.templates[name]; exists {
				s.log.Infow("overriding built-in template", "template", name, "file", match)
			}
			if err := s.add(name, string(data)); err != nil {
				return nil, err
			}
		}
	}

	s.log.Infow("templates loaded", "count", len(s.templates), "templates", s.Names())
	return s, nil
}

func (s *Store) add(name, src string) error {
	tmpl, err := template.New(name).Funcs(sprig.HtmlFuncMap()).Parse(src)
	if err != nil {
		return fmt.Errorf("parse template %q: %w", name, err)
	}
	s.templates[name] = tmpl
	return nil
}

func templateName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".html")
}

// Has reports whether a template with the given name is loaded.
func (s *Store) Has(name string) bool {
	_, ok := s.templates[name]
	return ok
}

// Names returns the loaded template names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render executes the named template with the given context. Context values
// are HTML-escaped according to their position in the output.
func (s *Store) Render(name string, ctx map[string]interface{}) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("execute template %q: %w", name, err)
	}
	return buf.String(), nil
}

// RenderString parses src as an ad hoc template and executes it with the
// given context. Placeholders behave exactly as in stored templates.
func (s *Store) RenderString(src string, ctx map[string]interface{}) (string, error) {
	if src == "" {
		return "", fmt.Errorf("template string is empty")
	}
	tmpl, err := template.New("inline").Funcs(sprig.HtmlFuncMap()).Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse inline template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("execute inline template: %w", err)
	}
	return buf.String(), nil
}
