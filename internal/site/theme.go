package site

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Palette is the resolved theme handed to the layout template.
type Palette struct {
	Theme   string            `json:"theme"`
	Variant string            `json:"variant"`
	Tokens  map[string]string `json:"tokens"`
	CSSVars map[string]string `json:"css_vars"`
	Style   string            `json:"style"`
}

// Manifest converts the content theme into a go-theme manifest.
func (d ThemeDocument) Manifest() *theme.Manifest {
	manifest := &theme.Manifest{
		Name:    strings.TrimSpace(d.Name),
		Version: strings.TrimSpace(d.Version),
		Tokens:  maps.Clone(d.Tokens),
	}
	if len(d.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(d.Variants))
		for name, variant := range d.Variants {
			manifest.Variants[name] = theme.Variant{Tokens: maps.Clone(variant.Tokens)}
		}
	}
	return manifest
}

// ResolvePalette registers the manifest and resolves variant through a
// go-theme selector. An empty variant selects the base tokens.
func ResolvePalette(doc ThemeDocument, variant string) (Palette, error) {
	manifest := doc.Manifest()
	if manifest.Name == "" {
		return Palette{}, nil
	}
	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return Palette{}, fmt.Errorf("site: register theme %q: %w", manifest.Name, err)
	}

	selector := theme.Selector{Registry: registry, DefaultTheme: manifest.Name}
	selection, err := selector.Select(manifest.Name, strings.TrimSpace(variant), theme.WithVersion(manifest.Version))
	if err != nil {
		return Palette{}, fmt.Errorf("site: select theme %q: %w", manifest.Name, err)
	}
	if selection.Variant != "" {
		if _, ok := selection.Manifest.Variants[selection.Variant]; !ok {
			return Palette{}, fmt.Errorf("site: theme %q has no variant %q", selection.Theme, selection.Variant)
		}
	}

	vars := selection.CSSVariables("--")
	return Palette{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		Tokens:  selection.Tokens(),
		CSSVars: vars,
		Style:   cssVarsStyle(vars),
	}, nil
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root{")
	for _, key := range keys {
		value := strings.NewReplacer("<", "", ">", "", ";", "", "}", "").Replace(vars[key])
		fmt.Fprintf(&b, "%s:%s;", key, value)
	}
	b.WriteString("}")
	return b.String()
}
