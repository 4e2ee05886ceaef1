package cmd

import (
	"fmt"

	"github.com/cheerioskun/patchninja/internal/rulesets"
	"github.com/spf13/cobra"
)

var (
	listRuleset  string
	listFieldSep string
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rules apply would run, in order",
	Long: `List the rewrite rules of the selected rule set followed by the rules from
the configuration file, in the order apply runs them.

Examples:
  patchninja rules
  patchninja rules --ruleset none --config rules.yaml`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVar(&listRuleset, "ruleset", rulesets.InstallerName, "built-in rule set to list before configured rules")
	rulesCmd.Flags().StringVar(&listFieldSep, "ifs", rulesets.DefaultIFS, "field separator for array splitting rules")
}

func runRules(cmd *cobra.Command, args []string) error {
	rules, err := loadRules()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, rule := range rules {
		fmt.Fprintf(out, "%2d. %-28s [on zero match: %s]\n", i+1, rule.ID, rule.OnZeroMatch)
		if rule.Description != "" {
			fmt.Fprintf(out, "    %s\n", rule.Description)
		}
	}
	return nil
}
