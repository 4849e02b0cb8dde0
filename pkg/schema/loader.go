package schema

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-leadsite/pkg/model"
)

// ErrUnknownForm is returned when a form kind is not present in the store.
var ErrUnknownForm = errors.New("schema: unknown form")

// Store holds the immutable form models keyed by kind.
type Store struct {
	forms map[model.FormKind]model.FormModel
}

// LoadOption customises LoadFS.
type LoadOption func(*loadConfig)

type loadConfig struct {
	decorators []model.Decorator
}

// WithDecorators runs the decorators, in order, on every parsed form.
func WithDecorators(decorators ...model.Decorator) LoadOption {
	return func(cfg *loadConfig) {
		for _, d := range decorators {
			if d != nil {
				cfg.decorators = append(cfg.decorators, d)
			}
		}
	}
}

// LoadFS walks the provided filesystem and parses JSON/YAML form documents.
// When fsys is nil or no documents are present, the returned store is empty.
func LoadFS(fsys fs.FS, options ...LoadOption) (*Store, error) {
	var cfg loadConfig
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	store := &Store{forms: make(map[model.FormKind]model.FormModel)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for rawKind, raw := range doc.Forms {
			kind, err := model.ParseFormKind(rawKind)
			if err != nil {
				return fmt.Errorf("schema: file %s: %w", path, err)
			}
			if _, exists := store.forms[kind]; exists {
				return fmt.Errorf("schema: duplicate form %q (file %s)", kind, path)
			}
			form, err := normaliseForm(raw, kind, path)
			if err != nil {
				return err
			}
			for _, d := range cfg.decorators {
				if err := d.Decorate(&form); err != nil {
					return fmt.Errorf("schema: decorate %s: %w", kind, err)
				}
			}
			store.forms[kind] = form
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Form returns the model for the supplied kind.
func (s *Store) Form(kind model.FormKind) (model.FormModel, error) {
	if s == nil {
		return model.FormModel{}, fmt.Errorf("%w: %s", ErrUnknownForm, kind)
	}
	form, ok := s.forms[kind]
	if !ok {
		return model.FormModel{}, fmt.Errorf("%w: %s", ErrUnknownForm, kind)
	}
	return form, nil
}

// Kinds lists the loaded kinds in display order.
func (s *Store) Kinds() []model.FormKind {
	if s == nil {
		return nil
	}
	var out []model.FormKind
	for _, kind := range model.FormKinds() {
		if _, ok := s.forms[kind]; ok {
			out = append(out, kind)
		}
	}
	return out
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
