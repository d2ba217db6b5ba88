package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/tsfang/pkg/config"
	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
	"github.com/Sumatoshi-tech/tsfang/pkg/report"
	"github.com/Sumatoshi-tech/tsfang/pkg/rules"
)

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	var export string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the available rules",
		Long: `List every rule with its default severity and options.

With --export the named rule set is written as a .tsfang.yaml document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if export != "" {
				return exportRuleSet(cmd.OutOrStdout(), export)
			}

			report.Rules(cmd.OutOrStdout(), rules.NewRegistry().All())

			return nil
		},
	}

	cmd.Flags().StringVar(&export, "export", "", "Write a rule set as configuration: recommended, standard, none")

	return cmd
}

// exportedRule is one rule entry of an exported configuration.
type exportedRule struct {
	Enabled  bool   `yaml:"enabled"`
	Severity string `yaml:"severity,omitempty"`
	Options  any    `yaml:"options,omitempty"`
}

func exportRuleSet(w io.Writer, name string) error {
	set, err := config.RuleSet(name)
	if err != nil {
		return err
	}

	ruleEntries := make(map[string]exportedRule, len(set))

	for ruleName, rc := range set {
		entry := exportedRule{Enabled: rc.Enabled, Options: rc.Options}
		if rc.Severity != lint.SeverityOff {
			entry.Severity = rc.Severity.String()
		}

		ruleEntries[ruleName] = entry
	}

	doc := struct {
		Extends string                  `yaml:"extends"`
		Rules   map[string]exportedRule `yaml:"rules"`
	}{Extends: config.RuleSetNone, Rules: ruleEntries}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err = enc.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode rule set: %w", err)
	}

	return enc.Close()
}
