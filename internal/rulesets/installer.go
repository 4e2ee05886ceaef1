package rulesets

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cheerioskun/patchninja/internal/models"
	"github.com/cheerioskun/patchninja/internal/patcher"
)

// LogCategories are the message labels whose verbose-logging lines get rewritten, in rule order
var LogCategories = []string{"INFO", "SUCCESS", "WARNING", "ERROR", "PROGRESS", "HEADER"}

// DefaultIFS is the field separator used when splitting version strings into arrays
const DefaultIFS = "."

// Config parameterises the installer rule set
type Config struct {
	IFS string // Field separator for the SC2206 array split
}

// Installer returns the ordered rules that clear SC2015, SC2034, SC2206 and SC2002 from a shell installer
func Installer(cfg Config) ([]*models.RewriteRule, error) {
	if cfg.IFS == "" {
		cfg.IFS = DefaultIFS
	}
	if strings.ContainsAny(cfg.IFS, "'\n") {
		return nil, &patcher.ConfigError{RuleID: "sc2206-array-split", Err: fmt.Errorf("field separator %q cannot contain a quote or newline", cfg.IFS)}
	}

	var rules []*models.RewriteRule
	for _, label := range LogCategories {
		rules = append(rules, verboseLogRule(label))
	}
	rules = append(rules,
		reservedVarRule(),
		arraySplitRule(cfg.IFS),
		uselessCatRule(),
	)
	return rules, nil
}

// verboseLogRule turns `[[ "$VERBOSE" == true ]] && echo ... || true` into an if block.
// The echo command is kept verbatim so the logged line and its destination do not change.
func verboseLogRule(label string) *models.RewriteRule {
	echo := `echo "(?:\[[^\]"\n]*\] )?` + regexp.QuoteMeta(label) + `: \$1"`
	return &models.RewriteRule{
		ID:          "sc2015-verbose-" + strings.ToLower(label),
		Description: fmt.Sprintf("SC2015: replace A && B || C in %s logging with if/then", label),
		Pattern: regexp.MustCompile(`(?m)^([ \t]*)\[\[ "\$VERBOSE" == true \]\] && (` +
			echo + ` >>"[^"\n]*" 2>/dev/null \|\| true)[ \t]*$`),
		Template:    "${1}if [[ \"$$VERBOSE\" == true ]]; then\n${1}    ${2}\n${1}fi",
		Done:        regexp.MustCompile(`(?m)^[ \t]*if \[\[ "\$VERBOSE" == true \]\]; then\n[ \t]*` + echo),
		OnZeroMatch: models.ZeroMatchWarn,
	}
}

func reservedVarRule() *models.RewriteRule {
	return &models.RewriteRule{
		ID:          "sc2034-gpg-key-id",
		Description: "SC2034: mark GPG_KEY_ID as intentionally unused",
		Pattern:     regexp.MustCompile(`(?m)^(#[^\n]*Security Configuration[^\n]*\n)(readonly GPG_KEY_ID=)`),
		Template:    "${1}# shellcheck disable=SC2034  # GPG_KEY_ID reserved for future GPG signature verification\n${2}",
		Done:        regexp.MustCompile(`shellcheck disable=SC2034`),
		OnZeroMatch: models.ZeroMatchWarn,
	}
}

func arraySplitRule(ifs string) *models.RewriteRule {
	return &models.RewriteRule{
		ID:          "sc2206-array-split",
		Description: fmt.Sprintf("SC2206: split with IFS='%s' read -ra instead of unquoted expansion", ifs),
		Pattern:     regexp.MustCompile(`\blocal ([A-Za-z_][A-Za-z0-9_]*)=\(\$([A-Za-z_][A-Za-z0-9_]*)\)`),
		Func: func(groups []string) string {
			name, source := groups[1], groups[2]
			return fmt.Sprintf(`local -a %s; IFS='%s' read -ra %s <<< "$%s"`, name, ifs, name, source)
		},
		Done:        regexp.MustCompile(`IFS='[^'\n]*' read -ra [A-Za-z_][A-Za-z0-9_]* <<<`),
		OnZeroMatch: models.ZeroMatchWarn,
	}
}

// uselessCatRule only rewrites a single simple command: with a list or redirect the
// input would move to a different command.
func uselessCatRule() *models.RewriteRule {
	return &models.RewriteRule{
		ID:          "sc2002-useless-cat",
		Description: `SC2002: replace $(cat FILE | CMD) with $(CMD < FILE)`,
		Pattern:     regexp.MustCompile(`\$\(cat ("[^"\n]*"|'[^'\n]*'|[^\s|()"'<>;&]+) \| ([^()|;&<>\n]+)\)`),
		Func: func(groups []string) string {
			return fmt.Sprintf("$(%s < %s)", strings.TrimSpace(groups[2]), groups[1])
		},
		OnZeroMatch: models.ZeroMatchWarn,
	}
}
