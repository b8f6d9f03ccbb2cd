package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-modalform/pkg/validation"
)

// Validators is an ordered rule list. It decodes from a single rule name or a
// list of names.
type Validators []validation.Kind

// UnmarshalJSON accepts "EMAIL" or ["NOTEMPTY", "EMAIL"].
func (v *Validators) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*v = Validators(validation.ParseKinds(single))
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("model: validators must be a string or a list of strings: %w", err)
	}
	*v = Validators(validation.ParseKinds(list...))
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML documents.
func (v *Validators) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = Validators(validation.ParseKinds(node.Value))
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("model: decode validators: %w", err)
		}
		*v = Validators(validation.ParseKinds(list...))
		return nil
	default:
		return fmt.Errorf("model: validators must be a string or a list (line %d)", node.Line)
	}
}

// Options is the ordered choice list of a select field. Entries decode from
// [value, label] pairs, {value, label} objects, or bare strings used as both.
type Options []Option

// UnmarshalJSON implements json.Unmarshaler.
func (o *Options) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: options must be a list: %w", err)
	}
	out := make(Options, 0, len(raw))
	for idx, entry := range raw {
		option, err := decodeJSONOption(entry)
		if err != nil {
			return fmt.Errorf("model: option %d: %w", idx, err)
		}
		out = append(out, option)
	}
	*o = out
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("model: options must be a list (line %d)", node.Line)
	}
	out := make(Options, 0, len(node.Content))
	for _, entry := range node.Content {
		switch entry.Kind {
		case yaml.ScalarNode:
			out = append(out, Option{Value: entry.Value, Label: entry.Value})
		case yaml.SequenceNode:
			var pair []string
			if err := entry.Decode(&pair); err != nil {
				return fmt.Errorf("model: decode option (line %d): %w", entry.Line, err)
			}
			option, err := optionFromPair(pair)
			if err != nil {
				return fmt.Errorf("model: option (line %d): %w", entry.Line, err)
			}
			out = append(out, option)
		case yaml.MappingNode:
			var option Option
			if err := entry.Decode(&option); err != nil {
				return fmt.Errorf("model: decode option (line %d): %w", entry.Line, err)
			}
			out = append(out, fillLabel(option))
		default:
			return fmt.Errorf("model: unsupported option (line %d)", entry.Line)
		}
	}
	*o = out
	return nil
}

func decodeJSONOption(entry json.RawMessage) (Option, error) {
	var value string
	if err := json.Unmarshal(entry, &value); err == nil {
		return Option{Value: value, Label: value}, nil
	}
	var pair []any
	if err := json.Unmarshal(entry, &pair); err == nil {
		strs := make([]string, 0, len(pair))
		for _, part := range pair {
			strs = append(strs, FormatValue(part))
		}
		return optionFromPair(strs)
	}
	var option Option
	if err := json.Unmarshal(entry, &option); err != nil {
		return Option{}, err
	}
	return fillLabel(option), nil
}

func optionFromPair(pair []string) (Option, error) {
	switch len(pair) {
	case 1:
		return Option{Value: pair[0], Label: pair[0]}, nil
	case 2:
		return Option{Value: pair[0], Label: pair[1]}, nil
	default:
		return Option{}, fmt.Errorf("expected [value, label], got %d entries", len(pair))
	}
}

func fillLabel(option Option) Option {
	if option.Label == "" {
		option.Label = option.Value
	}
	return option
}
