package rulesets

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cheerioskun/patchninja/internal/models"
	"github.com/cheerioskun/patchninja/internal/patcher"
	"github.com/cheerioskun/patchninja/internal/utils"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const installerScript = `#!/usr/bin/env bash
# 🔒 Security Configuration
readonly GPG_KEY_ID="0xDEADBEEF"

log_info() {
    [[ "$VERBOSE" == true ]] && echo "[$(date '+%Y-%m-%d %H:%M:%S')] INFO: $1" >>"$TEMP_DIR/install.log" 2>/dev/null || true
}

log_error() {
    [[ "$VERBOSE" == true ]] && echo "[$(date '+%Y-%m-%d %H:%M:%S')] ERROR: $1" >>"$TEMP_DIR/install.log" 2>/dev/null || true
}

version_compare() {
    local version1=$1
    local version2=$2
    local ver1_parts=($version1)
    local ver2_parts=($version2)
}

verify_checksum() {
    expected_checksum=$(cat "$temp_checksum" | cut -d' ' -f1)
}
`

const patchedScript = `#!/usr/bin/env bash
# 🔒 Security Configuration
# shellcheck disable=SC2034  # GPG_KEY_ID reserved for future GPG signature verification
readonly GPG_KEY_ID="0xDEADBEEF"

log_info() {
    if [[ "$VERBOSE" == true ]]; then
        echo "[$(date '+%Y-%m-%d %H:%M:%S')] INFO: $1" >>"$TEMP_DIR/install.log" 2>/dev/null || true
    fi
}

log_error() {
    if [[ "$VERBOSE" == true ]]; then
        echo "[$(date '+%Y-%m-%d %H:%M:%S')] ERROR: $1" >>"$TEMP_DIR/install.log" 2>/dev/null || true
    fi
}

version_compare() {
    local version1=$1
    local version2=$2
    local -a ver1_parts; IFS='.' read -ra ver1_parts <<< "$version1"
    local -a ver2_parts; IFS='.' read -ra ver2_parts <<< "$version2"
}

verify_checksum() {
    expected_checksum=$(cut -d' ' -f1 < "$temp_checksum")
}
`

func installerRules(t *testing.T) []*models.RewriteRule {
	t.Helper()
	rules, err := Installer(Config{})
	require.NoError(t, err)
	return rules
}

func apply(t *testing.T, content string, rules []*models.RewriteRule) (*models.Document, *models.PatchReport) {
	t.Helper()
	applier := patcher.NewApplier(afero.NewMemMapFs())
	applier.SetLogger(utils.NewLogger(zapcore.AddSync(io.Discard)))
	doc, report, err := applier.Apply(models.NewDocument("install.sh", content, 0755), rules)
	require.NoError(t, err)
	return doc, report
}

func TestInstaller_Rules(t *testing.T) {
	rules := installerRules(t)
	require.NoError(t, patcher.Validate(rules))

	var ids []string
	for _, r := range rules {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{
		"sc2015-verbose-info",
		"sc2015-verbose-success",
		"sc2015-verbose-warning",
		"sc2015-verbose-error",
		"sc2015-verbose-progress",
		"sc2015-verbose-header",
		"sc2034-gpg-key-id",
		"sc2206-array-split",
		"sc2002-useless-cat",
	}, ids)
}

func TestInstaller_PatchesScript(t *testing.T) {
	doc, report := apply(t, installerScript, installerRules(t))
	assert.Equal(t, patchedScript, doc.Content)

	byID := map[string]models.RuleResult{}
	for _, res := range report.Results {
		byID[res.RuleID] = res
	}
	assert.Equal(t, 1, byID["sc2015-verbose-info"].Occurrences)
	assert.Equal(t, 1, byID["sc2015-verbose-error"].Occurrences)
	assert.False(t, byID["sc2015-verbose-header"].Matched)
	assert.Equal(t, 2, byID["sc2206-array-split"].Occurrences)
	assert.Equal(t, 1, byID["sc2002-useless-cat"].Occurrences)
	assert.Equal(t, 1, byID["sc2034-gpg-key-id"].Occurrences)
}

func TestInstaller_Idempotent(t *testing.T) {
	rules := installerRules(t)
	once, _ := apply(t, installerScript, rules)
	twice, report := apply(t, once.Content, rules)

	assert.Equal(t, once.Content, twice.Content)
	assert.False(t, report.Changed())
	for _, res := range report.Results {
		switch res.RuleID {
		case "sc2015-verbose-info", "sc2015-verbose-error", "sc2034-gpg-key-id", "sc2206-array-split":
			assert.True(t, res.AlreadyApplied, res.RuleID)
		}
	}
}

func TestInstaller_VerboseLogging(t *testing.T) {
	line := `[[ "$VERBOSE" == true ]] && echo "INFO: $1" >>"log" 2>/dev/null || true`
	want := "if [[ \"$VERBOSE\" == true ]]; then\n    echo \"INFO: $1\" >>\"log\" 2>/dev/null || true\nfi"

	t.Run("RewritesToIfBlock", func(t *testing.T) {
		doc, _ := apply(t, line+"\n", installerRules(t))
		assert.Equal(t, want+"\n", doc.Content)
	})
	t.Run("EveryCategory", func(t *testing.T) {
		for _, label := range LogCategories {
			src := strings.Replace(line, "INFO", label, 1)
			doc, report := apply(t, src, installerRules(t))
			assert.Equal(t, strings.Replace(want, "INFO", label, 1), doc.Content, label)
			assert.Equal(t, 1, report.TotalOccurrences(), label)
		}
	})
	t.Run("TrailingCommandsUntouched", func(t *testing.T) {
		for _, src := range []string{
			line + "; foo",
			line + " && foo",
			"    " + line + " | tee -a other",
		} {
			doc, report := apply(t, src, installerRules(t))
			assert.Equal(t, src, doc.Content)
			assert.False(t, report.Changed(), src)
		}
	})
	t.Run("UnknownCategoryUntouched", func(t *testing.T) {
		src := strings.Replace(line, "INFO", "DEBUG", 1)
		doc, _ := apply(t, src, installerRules(t))
		assert.Equal(t, src, doc.Content)
	})
	t.Run("SameBehaviourInBash", func(t *testing.T) {
		bash, err := exec.LookPath("bash")
		if err != nil {
			t.Skip("bash not available")
		}
		for _, verbose := range []string{"true", "false"} {
			before := runLogger(t, bash, line, verbose)
			after := runLogger(t, bash, want, verbose)
			assert.Equal(t, before, after, "VERBOSE=%s", verbose)
		}
	})
}

// runLogger runs body as a bash function called with "hello" and returns what it logged
func runLogger(t *testing.T, bash, body, verbose string) string {
	t.Helper()
	dir := t.TempDir()
	script := fmt.Sprintf("VERBOSE=%s\nlogger() {\n%s\n}\nlogger hello\n", verbose, body)
	path := filepath.Join(dir, "script.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0644))

	syntax := exec.Command(bash, "-n", path)
	out, err := syntax.CombinedOutput()
	require.NoError(t, err, string(out))

	run := exec.Command(bash, path)
	run.Dir = dir
	out, err = run.CombinedOutput()
	require.NoError(t, err, string(out))

	logged, err := os.ReadFile(filepath.Join(dir, "log"))
	if os.IsNotExist(err) {
		return "<no log>"
	}
	require.NoError(t, err)
	return string(logged)
}

func TestInstaller_ArraySplit(t *testing.T) {
	t.Run("LocalWordSplit", func(t *testing.T) {
		doc, _ := apply(t, "local parts=($var)\n", installerRules(t))
		assert.Equal(t, "local -a parts; IFS='.' read -ra parts <<< \"$var\"\n", doc.Content)
		assert.NotContains(t, doc.Content, "=($")
	})
	t.Run("QuotedExpansionUntouched", func(t *testing.T) {
		doc, _ := apply(t, `local parts=("$var")`, installerRules(t))
		assert.Equal(t, `local parts=("$var")`, doc.Content)
	})
	t.Run("CustomSeparator", func(t *testing.T) {
		rules, err := Installer(Config{IFS: ","})
		require.NoError(t, err)
		doc, _ := apply(t, "local parts=($csv)", rules)
		assert.Equal(t, `local -a parts; IFS=',' read -ra parts <<< "$csv"`, doc.Content)
	})
	t.Run("QuoteInSeparatorIsConfigError", func(t *testing.T) {
		_, err := Installer(Config{IFS: "'"})
		var cfgErr *patcher.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})
}

func TestInstaller_UselessCat(t *testing.T) {
	for name, tc := range map[string]struct{ in, want string }{
		"QuotedFile":    {`sum=$(cat "$f" | sha256sum)`, `sum=$(sha256sum < "$f")`},
		"BareFile":      {`n=$(cat /etc/hosts | wc -l)`, `n=$(wc -l < /etc/hosts)`},
		"TrailingSpace": {`x=$(cat "$f" | tr a b )`, `x=$(tr a b < "$f")`},

		"NoPipeUntouched":       {`x=$(cat "$f")`, `x=$(cat "$f")`},
		"ListUntouched":         {`x=$(cat "$f" | sort; echo done)`, `x=$(cat "$f" | sort; echo done)`},
		"AndListUntouched":      {`x=$(cat "$f" | sort && echo done)`, `x=$(cat "$f" | sort && echo done)`},
		"BackgroundUntouched":   {`x=$(cat "$f" | sort & wait)`, `x=$(cat "$f" | sort & wait)`},
		"RedirectedUntouched":   {`x=$(cat "$f" | sort > out)`, `x=$(cat "$f" | sort > out)`},
		"RedirectFileUntouched": {`x=$(cat <in.txt | wc -l)`, `x=$(cat <in.txt | wc -l)`},
	} {
		t.Run(name, func(t *testing.T) {
			doc, _ := apply(t, tc.in, installerRules(t))
			assert.Equal(t, tc.want, doc.Content)
		})
	}
}
