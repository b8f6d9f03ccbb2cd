package loader

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Issue is one schema violation.
type Issue struct {
	// Path is the JSON pointer of the offending value.
	Path string
	// Field is Path in dotted form, e.g. "forms.0.fields.1.type".
	Field   string
	Message string
}

// SchemaError reports every violation found in one document.
type SchemaError struct {
	Source string
	Issues []Issue
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Field == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return fmt.Sprintf("loader: %s does not match the document schema: %s", e.Source, strings.Join(parts, "; "))
}

func schemaError(source string, err error) error {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return fmt.Errorf("loader: validate %s: %w", source, err)
	}

	seen := make(map[string]struct{})
	var issues []Issue
	collectIssues(validationErr, func(issue Issue) {
		key := issue.Path + "\x00" + issue.Message
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		issues = append(issues, issue)
	})
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return &SchemaError{Source: source, Issues: issues}
}

func collectIssues(err *jsonschema.ValidationError, add func(Issue)) {
	if len(err.Causes) == 0 {
		add(Issue{
			Path:    err.InstanceLocation,
			Field:   fieldPathFromPointer(err.InstanceLocation),
			Message: strings.TrimSpace(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectIssues(cause, add)
	}
}

func fieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(pointer), "#"), "/")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "/")
	for idx, segment := range parts {
		segment = strings.ReplaceAll(segment, "~1", "/")
		parts[idx] = strings.ReplaceAll(segment, "~0", "~")
	}
	return strings.Join(parts, ".")
}
