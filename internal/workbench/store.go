// Package workbench reads and writes the editor's workspace color
// customizations in settings.json.
//
// The settings file is edited in place with gjson/sjson so unrelated
// settings, key order and values branchtint does not own survive every
// write. Only the keys listed in [ManagedKeys] are set by Apply.
package workbench

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/branchtint/internal/errors"
	"github.com/Iron-Ham/branchtint/internal/rules"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ColorCustomizationsKey is the settings key holding workbench colors.
const ColorCustomizationsKey = "workbench.colorCustomizations"

// ManagedKeys returns the color customization keys Apply writes, in write
// order.
func ManagedKeys() []string {
	return []string{
		"statusBar.background",
		"statusBar.foreground",
		"statusBar.noFolderBackground",
		"statusBar.debuggingBackground",
		"titleBar.activeBackground",
		"titleBar.activeForeground",
		"titleBar.inactiveBackground",
		"titleBar.inactiveForeground",
	}
}

// managedValues maps resolved colors onto ManagedKeys.
func managedValues(c rules.ResolvedColors) map[string]string {
	return map[string]string{
		"statusBar.background":          c.StatusBg,
		"statusBar.foreground":          c.StatusFg,
		"statusBar.noFolderBackground":  c.StatusBg,
		"statusBar.debuggingBackground": c.StatusBg,
		"titleBar.activeBackground":     c.TitleBg,
		"titleBar.activeForeground":     c.TitleFg,
		"titleBar.inactiveBackground":   c.TitleBg,
		"titleBar.inactiveForeground":   c.TitleFg,
	}
}

// Snapshot is the color customization value captured before branchtint
// touched it. The zero value means the key was absent.
type Snapshot struct {
	Present bool   `json:"present"`
	Raw     string `json:"raw,omitempty"` // JSON text of the value
}

var prettyOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "    ", SortKeys: false}

// Store edits one settings file.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore creates a Store for the settings file at path on fs.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// NewOsStore creates a Store on the real filesystem.
func NewOsStore(path string) *Store {
	return NewStore(afero.NewOsFs(), path)
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Snapshot captures the current color customization value. A missing
// settings file yields an absent snapshot.
func (s *Store) Snapshot() (Snapshot, error) {
	doc, _, err := s.load()
	if err != nil {
		return Snapshot{}, err
	}
	res := gjson.Get(doc, escape(ColorCustomizationsKey))
	if !res.Exists() {
		return Snapshot{}, nil
	}
	return Snapshot{Present: true, Raw: res.Raw}, nil
}

// Colors returns the string-valued entries of the color customization
// object. Non-string values are skipped.
func (s *Store) Colors() (map[string]string, error) {
	doc, _, err := s.load()
	if err != nil {
		return nil, err
	}
	colors := make(map[string]string)
	gjson.Get(doc, escape(ColorCustomizationsKey)).ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.String {
			colors[key.String()] = value.String()
		}
		return true
	})
	return colors, nil
}

// Apply merges the resolved colors into the color customization object,
// preserving every key it does not manage. The file is only rewritten when
// its content changes.
func (s *Store) Apply(colors rules.ResolvedColors) error {
	doc, exists, err := s.load()
	if err != nil {
		return err
	}
	original := doc

	current := gjson.Get(doc, escape(ColorCustomizationsKey))
	if !current.IsObject() {
		if doc, err = sjson.SetRaw(doc, escape(ColorCustomizationsKey), "{}"); err != nil {
			return s.wrap("failed to reset color customizations", err)
		}
	}

	values := managedValues(colors)
	for _, key := range ManagedKeys() {
		path := escape(ColorCustomizationsKey) + "." + escape(key)
		if doc, err = sjson.Set(doc, path, values[key]); err != nil {
			return s.wrap("failed to set "+key, err)
		}
	}

	return s.save(original, doc, exists)
}

// Restore writes snap back verbatim. An absent snapshot removes the key.
func (s *Store) Restore(snap Snapshot) error {
	doc, exists, err := s.load()
	if err != nil {
		return err
	}
	if !exists && !snap.Present {
		return nil
	}
	original := doc

	if snap.Present {
		doc, err = sjson.SetRaw(doc, escape(ColorCustomizationsKey), snap.Raw)
	} else {
		doc, err = sjson.Delete(doc, escape(ColorCustomizationsKey))
	}
	if err != nil {
		return s.wrap("failed to restore color customizations", err)
	}

	return s.save(original, doc, exists)
}

// load returns the settings document, "{}" when the file does not exist.
func (s *Store) load() (doc string, exists bool, err error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "{}", false, nil
		}
		return "", false, s.wrap("failed to read settings", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "{}", true, nil
	}
	// settings.json may be JSONC; comments and trailing commas are not
	// round-tripped, so such files are left alone.
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return "", true, errors.NewSettingsError("settings file is not a plain JSON object", errors.ErrSettingsCorrupted).
			WithPath(s.path)
	}
	return string(data), true, nil
}

func (s *Store) save(original, doc string, exists bool) error {
	if exists && doc == original {
		return nil
	}
	out := pretty.PrettyOptions([]byte(doc), prettyOptions)
	if exists && bytes.Equal(out, []byte(original)) {
		return nil
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return s.wrap("failed to create settings directory", err)
	}
	tmp := s.path + ".branchtint.tmp"
	if err := afero.WriteFile(s.fs, tmp, out, 0o644); err != nil {
		return s.wrap("failed to write settings", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return s.wrap("failed to replace settings", err)
	}
	return nil
}

func (s *Store) wrap(msg string, err error) error {
	return errors.NewSettingsError(msg, err).WithPath(s.path)
}

// escape quotes the path separators of a literal key for gjson/sjson.
func escape(key string) string {
	return strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`).Replace(key)
}
