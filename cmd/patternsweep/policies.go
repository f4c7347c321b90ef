package main

import (
	"github.com/spf13/cobra"

	"mercator-hq/patternsweep/pkg/cli"
)

var policiesFlags struct {
	output string
}

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "Show retention policies",
	Long: `Print the retention policy of every category with its source and
archive namespaces, after applying the config file and environment
overrides.`,
	RunE: showPolicies,
}

func init() {
	rootCmd.AddCommand(policiesCmd)

	policiesCmd.Flags().StringVarP(&policiesFlags.output, "output", "o", "text", "output format (text, json)")
}

func showPolicies(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(policiesFlags.output)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	table, err := cfg.PolicyTable()
	if err != nil {
		return cli.NewConfigError("policies", err.Error())
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), table.Policies())
}
