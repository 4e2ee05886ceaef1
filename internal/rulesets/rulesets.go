package rulesets

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cheerioskun/patchninja/internal/models"
	"github.com/cheerioskun/patchninja/internal/patcher"
)

const (
	// InstallerName is the built-in shell installer rule set
	InstallerName = "installer"
	// NoneName selects no built-in rules, leaving only rules from configuration
	NoneName = "none"
)

var builders = map[string]func(Config) ([]*models.RewriteRule, error){
	InstallerName: Installer,
	NoneName:      func(Config) ([]*models.RewriteRule, error) { return nil, nil },
}

// Names returns the known rule set names, sorted
func Names() []string {
	var names []string
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup builds the named rule set
func Lookup(name string, cfg Config) ([]*models.RewriteRule, error) {
	build, ok := builders[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, &patcher.ConfigError{Err: fmt.Errorf("unknown rule set %q (available: %s)", name, strings.Join(Names(), ", "))}
	}
	return build(cfg)
}

// Compile turns configuration rule specs into rewrite rules. The first invalid spec aborts compilation.
func Compile(specs []models.RuleSpec) ([]*models.RewriteRule, error) {
	rules := make([]*models.RewriteRule, 0, len(specs))
	for i, spec := range specs {
		rule, err := compileSpec(spec)
		if err != nil {
			id := spec.ID
			if id == "" {
				id = fmt.Sprintf("#%d", i)
			}
			return nil, &patcher.ConfigError{RuleID: id, Err: err}
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func compileSpec(spec models.RuleSpec) (*models.RewriteRule, error) {
	if strings.TrimSpace(spec.ID) == "" {
		return nil, fmt.Errorf("missing id")
	}
	if spec.Pattern == "" {
		return nil, fmt.Errorf("missing pattern")
	}

	pattern, err := regexp.Compile(spec.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	policy, err := models.ParseZeroMatchPolicy(spec.OnZeroMatch)
	if err != nil {
		return nil, err
	}

	rule := &models.RewriteRule{
		ID:          spec.ID,
		Description: spec.Description,
		Pattern:     pattern,
		Template:    spec.Replace,
		OnZeroMatch: policy,
	}

	if spec.Done != "" {
		done, err := regexp.Compile(spec.Done)
		if err != nil {
			return nil, fmt.Errorf("invalid done pattern: %w", err)
		}
		rule.Done = done
	}

	return rule, nil
}
