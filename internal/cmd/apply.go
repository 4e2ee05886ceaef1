package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/cheerioskun/patchninja/internal/models"
	"github.com/cheerioskun/patchninja/internal/patcher"
	"github.com/cheerioskun/patchninja/internal/rulesets"
	"github.com/cheerioskun/patchninja/ui/review"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rulesetName string
	dryRun      bool
	showDiff    bool
	makeBackup  bool
	interactive bool
	fieldSep    string
)

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply [file]",
	Short: "Apply the configured rewrite rules to a file",
	Long: `Apply an ordered list of rewrite rules to a file and write it back atomically.

Rules run in order and each one sees the output of the previous one. The file is
only rewritten when at least one rule changed its content.

Examples:
  patchninja apply install.sh
  patchninja apply install.sh --dry-run --diff
  patchninja apply install.sh --backup --interactive
  patchninja apply notes.txt --ruleset none --config rules.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVar(&rulesetName, "ruleset", rulesets.InstallerName, "built-in rule set to run before configured rules")
	applyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "apply in memory only, never write the file")
	applyCmd.Flags().BoolVar(&showDiff, "diff", false, "print a diff of the changes")
	applyCmd.Flags().BoolVar(&makeBackup, "backup", false, "copy the original to <file>"+patcher.BackupSuffix+" before writing")
	applyCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "review the changes before writing")
	applyCmd.Flags().StringVar(&fieldSep, "ifs", rulesets.DefaultIFS, "field separator for array splitting rules")

	viper.BindPFlag("ruleset", applyCmd.Flags().Lookup("ruleset"))
	viper.BindPFlag("backup", applyCmd.Flags().Lookup("backup"))
	viper.BindPFlag("ifs", applyCmd.Flags().Lookup("ifs"))
}

func runApply(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	rules, err := loadRules()
	if err != nil {
		return err
	}

	opts := patcher.Options{
		DryRun: dryRun,
		Backup: viper.GetBool("backup"),
	}
	if interactive {
		opts.Review = review.Confirm
	}

	applier := patcher.NewApplier(appFs)
	applier.SetLogger(logger)

	var before string
	if showDiff {
		doc, err := applier.Load(path)
		if err != nil {
			return err
		}
		before = doc.Content
	}

	report, err := applier.Run(path, rules, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if viper.GetBool("verbose") {
		fmt.Fprintln(out, review.RenderReport(report))
	}
	if showDiff && report.Changed() {
		after, err := patchedContent(applier, path, before, rules, report)
		if err != nil {
			return err
		}
		fmt.Fprint(out, patcher.Diff(before, after, 2))
	}

	fmt.Fprintln(out, completionMessage(report))
	return nil
}

// patchedContent returns the new content: from disk if it was written, otherwise recomputed in memory
func patchedContent(applier *patcher.Applier, path, before string, rules []*models.RewriteRule, report *models.PatchReport) (string, error) {
	if report.Written {
		doc, err := applier.Load(path)
		if err != nil {
			return "", err
		}
		return doc.Content, nil
	}
	doc, _, err := applier.Apply(models.NewDocument(path, before, 0), rules)
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

// loadRules builds the selected rule set and appends the rules from configuration
func loadRules() ([]*models.RewriteRule, error) {
	rules, err := rulesets.Lookup(viper.GetString("ruleset"), rulesets.Config{
		IFS: viper.GetString("ifs"),
	})
	if err != nil {
		return nil, err
	}

	var specs []models.RuleSpec
	if err := viper.UnmarshalKey("rules", &specs); err != nil {
		return nil, &patcher.ConfigError{Err: fmt.Errorf("failed to parse rules: %w", err)}
	}

	extra, err := rulesets.Compile(specs)
	if err != nil {
		return nil, err
	}
	rules = append(rules, extra...)

	if len(rules) == 0 {
		return nil, &patcher.ConfigError{Err: fmt.Errorf("no rules to apply")}
	}
	if err := patcher.Validate(rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func completionMessage(report *models.PatchReport) string {
	switch {
	case !report.Changed():
		return review.NeutralStyle.Render(report.Summary())
	case report.Written:
		return review.SuccessStyle.Render(report.Summary())
	case dryRun:
		return review.NeutralStyle.Render(fmt.Sprintf("Dry run: %d replacements would be made", report.TotalOccurrences()))
	default:
		return review.NeutralStyle.Render("Changes discarded, file left untouched")
	}
}
