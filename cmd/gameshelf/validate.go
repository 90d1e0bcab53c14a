package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/themesource"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [theme-file...]",
		Short: "Check theme documents for errors",
		Long: `Parse and compile theme documents and report every issue found.
Without arguments every document in the themes directory is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, root, args)
		},
	}
}

type validationResult struct {
	path   string
	name   string
	issues theme.Issues
	err    error
}

func (r validationResult) failed() bool {
	return r.err != nil || r.issues.HasErrors()
}

func runValidate(cmd *cobra.Command, root *rootOptions, files []string) error {
	if len(files) == 0 {
		cfg, err := root.loadConfig(cmd)
		if err != nil {
			return err
		}
		dir := themesource.NewDirectory(cfg.Theme.Dir, cfg.Theme.Active, logging.Discard())
		if err := dir.Ensure(cmd.Context()); err != nil {
			return newCommandError("validate", "preparing the themes directory", err, "Check permissions on "+cfg.Theme.Dir+".")
		}
		files, err = themeFiles(cfg.Theme.Dir)
		if err != nil {
			return newCommandError("validate", "listing themes", err, "Check permissions on "+cfg.Theme.Dir+".")
		}
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range files {
		result := validateFile(path)
		printValidation(out, result)
		if result.failed() {
			failed++
		}
	}

	if failed > 0 {
		return newCommandError("validate", fmt.Sprintf("%d of %d theme(s) have errors", failed, len(files)), nil,
			"Fix the errors listed above and run 'gameshelf validate' again.")
	}
	fmt.Fprintf(out, "\n%d theme(s) valid\n", len(files))
	return nil
}

func themeFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !theme.IsDocumentFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func validateFile(path string) validationResult {
	result := validationResult{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		result.err = err
		return result
	}
	doc, err := theme.ParseDocument(path, data)
	if err != nil {
		result.err = err
		return result
	}
	result.name = doc.Config.ThemeName
	_, result.issues = theme.Compile(doc, theme.CompileOptions{})
	return result
}

func printValidation(w io.Writer, r validationResult) {
	mark := "✓"
	if r.failed() {
		mark = "✗"
	}
	label := r.path
	if r.name != "" {
		label = fmt.Sprintf("%s (%s)", r.path, r.name)
	}
	fmt.Fprintf(w, "%s %s\n", mark, label)

	if r.err != nil {
		fmt.Fprintf(w, "    %v\n", r.err)
		return
	}

	title := cases.Title(language.English)
	for _, severity := range []theme.Severity{theme.SeverityError, theme.SeverityWarning} {
		var lines []string
		for _, issue := range r.issues {
			if issue.Severity != severity {
				continue
			}
			lines = append(lines, issueLine(issue))
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %ss:\n", title.String(string(severity)))
		for _, line := range lines {
			fmt.Fprintf(w, "    - %s\n", line)
		}
	}
}

func issueLine(issue theme.Issue) string {
	var where string
	switch {
	case issue.NodeID != "":
		where = issue.NodeID + ": "
	case issue.Field != "":
		where = issue.Field + ": "
	}
	return strings.TrimSpace(fmt.Sprintf("%s%s [%s]", where, issue.Message, issue.Code))
}
