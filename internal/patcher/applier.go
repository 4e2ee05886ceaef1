package patcher

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cheerioskun/patchninja/internal/models"
	"github.com/cheerioskun/patchninja/internal/utils"
	"github.com/spf13/afero"
)

// ReviewFunc is consulted after rules are applied and before anything is written.
// Returning false skips the save without failing the run.
type ReviewFunc func(doc *models.Document, report *models.PatchReport) (bool, error)

// Options tunes a patch run
type Options struct {
	DryRun bool       // Apply in memory only
	Backup bool       // Copy the original to <path>.bak before saving
	Review ReviewFunc // Optional confirmation hook
}

// Applier loads a document, rewrites it with an ordered rule list and persists the result
type Applier struct {
	fs  afero.Fs
	log *utils.Logger
}

// NewApplier creates a new Applier on the given filesystem, logging to the default logger
func NewApplier(fs afero.Fs) *Applier {
	return &Applier{
		fs:  fs,
		log: utils.GetLogger(),
	}
}

// SetLogger sets where rule outcomes and cleanup problems are logged
func (a *Applier) SetLogger(log *utils.Logger) {
	a.log = log
}

// Load reads the whole file at path into a Document
func (a *Applier) Load(path string) (*models.Document, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("is a directory")}
	}

	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	return models.NewDocument(path, string(data), info.Mode().Perm()), nil
}

// Apply runs every rule over the document in list order. Each rule sees the output of the previous one.
func (a *Applier) Apply(doc *models.Document, rules []*models.RewriteRule) (*models.Document, *models.PatchReport, error) {
	if err := Validate(rules); err != nil {
		return doc, nil, err
	}

	report := &models.PatchReport{Path: doc.Path}
	for _, rule := range rules {
		content, count := applyRule(doc.Content, rule)
		doc.Content = content

		result := models.RuleResult{
			RuleID:      rule.ID,
			Matched:     count > 0,
			Occurrences: count,
		}
		if count == 0 {
			result.AlreadyApplied = rule.IsApplied(content)
			if err := a.checkZeroMatch(doc.Path, rule, result); err != nil {
				return doc, report, err
			}
		} else {
			a.log.Debug("rule %s replaced %d occurrence(s) in %s", rule.ID, count, doc.Path)
		}
		report.Add(result)
	}

	return doc, report, nil
}

// Save atomically replaces the file at path with the document content
func (a *Applier) Save(doc *models.Document, path string) error {
	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(a.fs, dir, "."+filepath.Base(path)+".patchninja-*")
	if err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("failed to create temporary file: %w", err)}
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			if rmErr := a.fs.Remove(tmpName); rmErr != nil {
				a.log.Warning("failed to remove temporary file %s: %v", tmpName, rmErr)
			}
		}
	}()

	if _, err := tmp.WriteString(doc.Content); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("failed to write temporary file: %w", err)}
	}
	if err := tmp.Sync(); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("failed to sync temporary file: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("failed to close temporary file: %w", err)}
	}

	mode := doc.Mode
	if mode == 0 {
		mode = 0644
	}
	if err := a.fs.Chmod(tmpName, mode); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("failed to set permissions: %w", err)}
	}
	if err := a.fs.Rename(tmpName, path); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("failed to replace file: %w", err)}
	}

	committed = true
	return nil
}

// Run performs one full patch run: load, apply, optionally review and back up, then save if anything changed
func (a *Applier) Run(path string, rules []*models.RewriteRule, opts Options) (*models.PatchReport, error) {
	if err := Validate(rules); err != nil {
		return nil, err
	}

	doc, err := a.Load(path)
	if err != nil {
		return nil, err
	}

	doc, report, err := a.Apply(doc, rules)
	if err != nil {
		return report, err
	}

	if !doc.Changed() {
		a.log.Debug("no rule changed %s, leaving it untouched", path)
		return report, nil
	}
	if opts.DryRun {
		return report, nil
	}

	if opts.Review != nil {
		ok, err := opts.Review(doc, report)
		if err != nil {
			return report, fmt.Errorf("review failed: %w", err)
		}
		if !ok {
			a.log.Debug("review declined, %s not written", path)
			return report, nil
		}
	}

	if opts.Backup {
		if err := a.backup(path); err != nil {
			return report, &WriteError{Path: path, Err: err}
		}
	}

	if err := a.Save(doc, path); err != nil {
		return report, err
	}
	report.Written = true
	return report, nil
}

// Validate rejects rule lists that cannot run, before any file is touched
func Validate(rules []*models.RewriteRule) error {
	seen := make(map[string]bool, len(rules))
	for i, rule := range rules {
		if rule == nil {
			return &ConfigError{Err: fmt.Errorf("rule %d is nil", i)}
		}
		if strings.TrimSpace(rule.ID) == "" {
			return &ConfigError{Err: fmt.Errorf("rule %d has no id", i)}
		}
		if seen[rule.ID] {
			return &ConfigError{RuleID: rule.ID, Err: fmt.Errorf("duplicate rule id")}
		}
		seen[rule.ID] = true
		if rule.Pattern == nil {
			return &ConfigError{RuleID: rule.ID, Err: fmt.Errorf("missing pattern")}
		}
	}
	return nil
}

// applyRule replaces every non-overlapping match of the rule and returns the new text and match count
func applyRule(src string, rule *models.RewriteRule) (string, int) {
	matches := rule.Pattern.FindAllStringSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src, 0
	}

	var b strings.Builder
	b.Grow(len(src))
	last := 0
	for _, loc := range matches {
		b.WriteString(src[last:loc[0]])
		b.WriteString(rule.Replacement(src, loc))
		last = loc[1]
	}
	b.WriteString(src[last:])

	return b.String(), len(matches)
}

func (a *Applier) checkZeroMatch(path string, rule *models.RewriteRule, result models.RuleResult) error {
	if result.AlreadyApplied {
		a.log.Debug("rule %s already applied to %s", rule.ID, path)
		return nil
	}
	switch rule.OnZeroMatch {
	case models.ZeroMatchWarn:
		a.log.Warning("rule %s matched nothing in %s", rule.ID, path)
	case models.ZeroMatchFail:
		return &ZeroMatchError{Path: path, RuleID: rule.ID}
	}
	return nil
}
