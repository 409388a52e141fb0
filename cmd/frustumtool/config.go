package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after defaults and the config file are merged
and validated. With --write the result is also saved to the given path.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().String("write", "", "save the effective config to this path")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadCamera()
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))

	if path, _ := cmd.Flags().GetString("write"); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	}
	return nil
}
