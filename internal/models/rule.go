package models

import (
	"fmt"
	"regexp"
	"strings"
)

// ZeroMatchPolicy decides what a patch run does when a rule finds nothing to rewrite
type ZeroMatchPolicy int

const (
	// ZeroMatchIgnore treats an unmatched rule as a benign no-op
	ZeroMatchIgnore ZeroMatchPolicy = iota
	// ZeroMatchWarn logs a warning and carries on
	ZeroMatchWarn
	// ZeroMatchFail aborts the run before anything is written
	ZeroMatchFail
)

// String returns the configuration name of the policy
func (p ZeroMatchPolicy) String() string {
	switch p {
	case ZeroMatchIgnore:
		return "ignore"
	case ZeroMatchWarn:
		return "warn"
	case ZeroMatchFail:
		return "fail"
	default:
		return "unknown"
	}
}

// ParseZeroMatchPolicy parses a policy name; the empty string means ignore
func ParseZeroMatchPolicy(s string) (ZeroMatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ignore":
		return ZeroMatchIgnore, nil
	case "warn":
		return ZeroMatchWarn, nil
	case "fail":
		return ZeroMatchFail, nil
	default:
		return ZeroMatchIgnore, fmt.Errorf("unknown zero-match policy %q (want ignore, warn or fail)", s)
	}
}

// ReplaceFunc computes a replacement from the submatches of one match.
// groups[0] is the whole match, groups[i] the i-th capture group ("" if it did not participate).
type ReplaceFunc func(groups []string) string

// RewriteRule is one pattern/replacement pair applied during a patch run
type RewriteRule struct {
	ID          string          // Stable identifier used in reports
	Description string          // Human-readable summary
	Pattern     *regexp.Regexp  // What to find
	Template    string          // Replacement with ${1} / ${name} expansion, used when Func is nil
	Func        ReplaceFunc     // Replacement producer, takes precedence over Template
	Done        *regexp.Regexp  // Optional detector for text that is already patched
	OnZeroMatch ZeroMatchPolicy // What an unmatched run means
}

// Replacement returns the text that replaces the match described by loc in src
func (r *RewriteRule) Replacement(src string, loc []int) string {
	if r.Func != nil {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = src[loc[2*i]:loc[2*i+1]]
			}
		}
		return r.Func(groups)
	}
	return string(r.Pattern.ExpandString(nil, r.Template, src, loc))
}

// IsApplied reports whether the rule's Done detector recognises already patched text
func (r *RewriteRule) IsApplied(content string) bool {
	return r.Done != nil && r.Done.MatchString(content)
}

// RuleSpec is the uncompiled, configuration-friendly form of a RewriteRule
type RuleSpec struct {
	ID          string `mapstructure:"id" json:"id"`
	Description string `mapstructure:"description" json:"description,omitempty"`
	Pattern     string `mapstructure:"pattern" json:"pattern"`
	Replace     string `mapstructure:"replace" json:"replace"`
	Done        string `mapstructure:"done" json:"done,omitempty"`
	OnZeroMatch string `mapstructure:"on_zero_match" json:"on_zero_match,omitempty"`
}
