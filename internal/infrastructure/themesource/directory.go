// Package themesource reads theme documents from the local themes directory,
// watches it for changes and installs themes from git repositories.
package themesource

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
)

// DefaultTheme is the name of the built-in theme.
const DefaultTheme = "default"

const defaultFileName = "default.yaml"

//go:embed default.yaml
var defaultThemeContent []byte

// DefaultDocument returns the built-in theme source.
func DefaultDocument() []byte {
	return append([]byte(nil), defaultThemeContent...)
}

// ErrThemeNotFound is returned when no theme carries the requested name.
var ErrThemeNotFound = errors.New("theme not found")

// Entry is one parsed theme file.
type Entry struct {
	Name     string
	Path     string
	Document *theme.Document
}

// Directory serves themes from a directory of .json/.yaml/.yml files. A
// theme is named by its config.themeName, or by its file name when unset.
type Directory struct {
	root   string
	logger ports.Logger

	mu     sync.RWMutex
	active string
}

// NewDirectory creates a Directory selecting active (DefaultTheme when empty).
func NewDirectory(root, active string, logger ports.Logger) *Directory {
	if logger == nil {
		logger = logging.Discard()
	}
	if active == "" {
		active = DefaultTheme
	}
	return &Directory{
		root:   root,
		active: active,
		logger: logger.With("component", "themesource", "layer", "infrastructure"),
	}
}

// Root returns the themes directory.
func (d *Directory) Root() string { return d.root }

// Active returns the name of the selected theme.
func (d *Directory) Active() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.active
}

// SetActive selects another theme. The change applies to the next fetch.
func (d *Directory) SetActive(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = name
}

// Ensure creates the directory and restores the built-in theme file when it
// is missing.
func (d *Directory) Ensure(ctx context.Context) error {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("create themes dir: %w", err)
	}
	path := filepath.Join(d.root, defaultFileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat default theme: %w", err)
	}
	d.logger.Info(ctx, "restoring default theme", "path", path)
	if err := os.WriteFile(path, defaultThemeContent, 0o644); err != nil {
		return fmt.Errorf("write default theme: %w", err)
	}
	return nil
}

// Scan parses every theme file. Files that fail to parse are logged and
// skipped. Entries are sorted by name.
func (d *Directory) Scan(ctx context.Context) ([]Entry, error) {
	if err := d.Ensure(ctx); err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("read themes dir: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if de.IsDir() || !theme.IsDocumentFile(de.Name()) {
			continue
		}
		path := filepath.Join(d.root, de.Name())
		doc, err := readDocument(path)
		if err != nil {
			d.logger.Error(ctx, "skipping malformed theme", "path", path, "error", err)
			continue
		}
		entries = append(entries, Entry{Name: themeName(doc, path), Path: path, Document: doc})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func readDocument(path string) (*theme.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return theme.ParseDocument(path, data)
}

func themeName(doc *theme.Document, path string) string {
	if name := strings.TrimSpace(doc.Config.ThemeName); name != "" {
		return name
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// List returns the available theme names, deduplicated and sorted.
func (d *Directory) List(ctx context.Context) ([]string, error) {
	entries, err := d.Scan(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for i, entry := range entries {
		if i > 0 && entries[i-1].Name == entry.Name {
			continue
		}
		names = append(names, entry.Name)
	}
	return names, nil
}

// Load returns the theme with the given name.
func (d *Directory) Load(ctx context.Context, name string) (*theme.Document, error) {
	entries, err := d.Scan(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.Name == name {
			return entry.Document, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
}

// FetchTheme loads the active theme, falling back to the built-in one when
// the active theme does not exist.
func (d *Directory) FetchTheme(ctx context.Context) (*theme.Document, error) {
	active := d.Active()
	doc, err := d.Load(ctx, active)
	if err == nil || !errors.Is(err, ErrThemeNotFound) || active == DefaultTheme {
		return doc, err
	}
	d.logger.Warn(ctx, "active theme not found, using default", "theme", active)
	return d.Load(ctx, DefaultTheme)
}
