package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// applyConfigFile merges a YAML or JSON config file into cfg. Keys are matched
// case-insensitively with '-' and '_' ignored, so dry-run, dry_run and dryRun
// are the same key. Unknown keys are rejected.
func applyConfigFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	str := func(dst *string) func(any) error {
		return func(v any) error {
			s, err := valueAsString(v)
			*dst = s
			return err
		}
	}
	list := func(dst *[]string) func(any) error {
		return func(v any) error {
			l, err := valueAsStringSlice(v)
			*dst = sanitizeTags(l)
			return err
		}
	}
	flag := func(dst *bool) func(any) error {
		return func(v any) error {
			b, err := valueAsBool(v)
			*dst = b
			return err
		}
	}
	setters := map[string]func(any) error{
		"input":             str(&cfg.Input),
		"out":               str(&cfg.Out),
		"format":            str(&cfg.Format),
		"includetags":       list(&cfg.IncludeTags),
		"excludetags":       list(&cfg.ExcludeTags),
		"includeunreleased": flag(&cfg.IncludeUnreleased),
		"insecure":          flag(&cfg.Insecure),
		"dryrun":            flag(&cfg.DryRun),
		"force":             flag(&cfg.Force),
		"verbose":           flag(&cfg.Verbose),
	}

	for key, value := range raw {
		set, ok := setters[normalizeKey(key)]
		if !ok {
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
		if err := set(value); err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
	}
	return nil
}

func normalizeKey(raw string) string {
	return strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(raw)))
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(val), nil
	}
	return "", fmt.Errorf("expected string, got %T", v)
}

// valueAsStringSlice accepts a list or a comma separated string.
func valueAsStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.Split(val, ","), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			s, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			items = append(items, s)
		}
		return items, nil
	}
	return nil, fmt.Errorf("expected string or list, got %T", v)
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case nil:
		return false, nil
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "", "false", "f", "0", "no", "n":
			return false, nil
		}
		return false, fmt.Errorf("invalid boolean value %q", val)
	}
	return false, fmt.Errorf("expected boolean, got %T", v)
}
