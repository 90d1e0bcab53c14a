package themesource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
)

// ErrThemeExists is returned when an installed file would overwrite an
// existing one and Force is not set.
var ErrThemeExists = errors.New("theme file already exists")

// InstallOptions selects what to clone.
type InstallOptions struct {
	URL    string
	Branch string
	// Force overwrites existing theme files with the same name.
	Force bool
}

// Installer copies theme documents out of a git repository into the themes
// directory. Documents are read from the repository root and its themes/
// folder; files that do not parse are skipped.
type Installer struct {
	root   string
	logger ports.Logger
}

// NewInstaller creates an installer writing into root.
func NewInstaller(root string, logger ports.Logger) *Installer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Installer{root: root, logger: logger.With("component", "installer", "layer", "infrastructure")}
}

// Install clones the repository and returns the names of installed themes.
func (i *Installer) Install(ctx context.Context, opts InstallOptions) ([]string, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, errors.New("repository url is required")
	}
	if err := os.MkdirAll(i.root, 0o755); err != nil {
		return nil, fmt.Errorf("create themes dir: %w", err)
	}

	checkout, err := os.MkdirTemp("", "gameshelf-theme-*")
	if err != nil {
		return nil, fmt.Errorf("create checkout dir: %w", err)
	}
	defer os.RemoveAll(checkout)

	cloneOpts := &git.CloneOptions{URL: opts.URL}
	if isRemote(opts.URL) {
		cloneOpts.Depth = 1
	}
	if opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
		cloneOpts.SingleBranch = true
	}

	i.logger.Info(ctx, "cloning theme repository", "url", opts.URL, "branch", opts.Branch)
	if _, err := git.PlainCloneContext(ctx, checkout, false, cloneOpts); err != nil {
		return nil, fmt.Errorf("clone %s: %w", opts.URL, err)
	}

	candidates, err := documentFiles(checkout, filepath.Join(checkout, "themes"))
	if err != nil {
		return nil, err
	}

	var names []string
	for _, src := range candidates {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", src, err)
		}
		doc, err := theme.ParseDocument(src, data)
		if err != nil {
			i.logger.Warn(ctx, "skipping file that is not a theme", "path", src, "error", err)
			continue
		}

		dst := filepath.Join(i.root, filepath.Base(src))
		if _, err := os.Stat(dst); err == nil && !opts.Force {
			return names, fmt.Errorf("%w: %s", ErrThemeExists, dst)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return names, fmt.Errorf("write %s: %w", dst, err)
		}
		name := themeName(doc, dst)
		i.logger.Info(ctx, "installed theme", "theme", name, "path", dst)
		names = append(names, name)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("no theme documents found in %s", opts.URL)
	}
	sort.Strings(names)
	return names, nil
}

func documentFiles(dirs ...string) ([]string, error) {
	var out []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !theme.IsDocumentFile(entry.Name()) {
				continue
			}
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	return out, nil
}

// isRemote reports whether url needs a network transport. Local clones do
// not support shallow fetches.
func isRemote(url string) bool {
	return strings.Contains(url, "://") && !strings.HasPrefix(url, "file://") || strings.Contains(url, "@")
}
