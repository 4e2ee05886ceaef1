package models

import "fmt"

// RuleResult records what one rule did during a patch run
type RuleResult struct {
	RuleID         string `json:"rule_id"`
	Matched        bool   `json:"matched"`
	Occurrences    int    `json:"occurrences"`
	AlreadyApplied bool   `json:"already_applied"` // No match, but the Done detector found patched text
}

// PatchReport is the ordered outcome of a patch run, one entry per rule
type PatchReport struct {
	Path    string       `json:"path"`
	Results []RuleResult `json:"results"`
	Written bool         `json:"written"` // Whether the document was persisted
}

// Add appends a rule result
func (r *PatchReport) Add(result RuleResult) {
	r.Results = append(r.Results, result)
}

// Changed returns true if any rule replaced at least one occurrence
func (r *PatchReport) Changed() bool {
	return r.TotalOccurrences() > 0
}

// TotalOccurrences returns the number of replacements across all rules
func (r *PatchReport) TotalOccurrences() int {
	total := 0
	for _, res := range r.Results {
		total += res.Occurrences
	}
	return total
}

// MatchedRules returns how many rules matched at least once
func (r *PatchReport) MatchedRules() int {
	count := 0
	for _, res := range r.Results {
		if res.Matched {
			count++
		}
	}
	return count
}

// Summary returns a one-line description of the run
func (r *PatchReport) Summary() string {
	if !r.Changed() {
		return "No changes were necessary"
	}
	return fmt.Sprintf("Patch applied successfully (%d replacements from %d of %d rules)",
		r.TotalOccurrences(), r.MatchedRules(), len(r.Results))
}
