package theme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"

	gserrors "github.com/alexisbeaulieu97/gameshelf/pkg/errors"
)

// SupportedVersions is the document format range this build understands.
const SupportedVersions = ">=1.0.0, <2.0.0"

// Severity classifies a validation issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue codes.
const (
	CodeDuplicateID   = "duplicate_id"
	CodeGridOverflow  = "grid_overflow"
	CodeVersion       = "unsupported_version"
	CodeConfig        = "invalid_config"
	CodeMissingLayout = "missing_layout"
)

// Issue is one validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	NodeID   string   `json:"nodeId,omitempty"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	var b strings.Builder
	b.WriteString(string(i.Severity))
	b.WriteString(": ")
	if i.NodeID != "" {
		fmt.Fprintf(&b, "node %s: ", i.NodeID)
	} else if i.Field != "" {
		fmt.Fprintf(&b, "%s: ", i.Field)
	}
	b.WriteString(i.Message)
	return b.String()
}

// Issues is an ordered list of findings.
type Issues []Issue

// HasErrors reports whether any issue has error severity.
func (is Issues) HasErrors() bool {
	for _, issue := range is {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err joins the error-severity issues into a single error, or returns nil.
func (is Issues) Err() error {
	var errs []error
	for _, issue := range is {
		if issue.Severity != SeverityError {
			continue
		}
		field := issue.Field
		if field == "" && issue.NodeID != "" {
			field = "node " + issue.NodeID
		}
		errs = append(errs, gserrors.NewValidationError(field, issue.Message, nil))
	}
	return errors.Join(errs...)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate inspects a compiled document. Duplicate ids are warnings since
// rendering still works; grid overflow, unsupported versions and invalid
// metadata are errors.
func Validate(doc *Document, opts CompileOptions) Issues {
	var issues Issues
	if doc == nil {
		return append(issues, Issue{Severity: SeverityError, Code: CodeMissingLayout, Message: "document is nil"})
	}

	issues = append(issues, validateConfig(doc.Config)...)

	if doc.Layout.Global == nil && len(doc.Layout.Pages) == 0 {
		issues = append(issues, Issue{Severity: SeverityError, Code: CodeMissingLayout, Field: "layout", Message: "layout has neither a global shell nor pages"})
	}

	seen := make(map[string]int)
	for _, root := range doc.Roots() {
		root.Walk(func(node *Node, _ int) bool {
			if node.ID != "" {
				seen[node.ID]++
				if seen[node.ID] == 2 {
					issues = append(issues, Issue{
						Severity: SeverityWarning,
						Code:     CodeDuplicateID,
						NodeID:   node.ID,
						Message:  "id is used by more than one node",
					})
				}
			}
			issues = append(issues, gridIssues(node, opts.tracks())...)
			return true
		})
	}

	return issues
}

func validateConfig(cfg MetaConfig) Issues {
	var issues Issues
	if err := validate.Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fieldErr := range validationErrs {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Code:     CodeConfig,
					Field:    "config." + lowerFirst(fieldErr.Field()),
					Message:  fmt.Sprintf("failed %q validation", fieldErr.Tag()),
				})
			}
		} else {
			issues = append(issues, Issue{Severity: SeverityError, Code: CodeConfig, Field: "config", Message: err.Error()})
		}
	}

	if cfg.Version == "" {
		return issues
	}
	version, err := semver.NewVersion(cfg.Version)
	if err != nil {
		return issues
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return issues
	}
	if !constraint.Check(version) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     CodeVersion,
			Field:    "config.version",
			Message:  fmt.Sprintf("version %s is outside the supported range %s", cfg.Version, SupportedVersions),
		})
	}
	return issues
}

func gridIssues(node *Node, tracks int) Issues {
	limitKey, _, _, ok := gridAxis(node.NodeType())
	if !ok {
		return nil
	}
	limit := node.Props.Int(limitKey, tracks)
	var issues Issues
	for _, child := range node.Children {
		start := child.Props.Int("start", 1)
		span := child.Props.Int("span", 1)
		if start+span-1 > limit {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     CodeGridOverflow,
				NodeID:   child.ID,
				Message:  fmt.Sprintf("placement %d / span %d overflows %d %s of %s", start, span, limit, limitKey, node.ID),
			})
		}
	}
	return issues
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
