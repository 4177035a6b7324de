package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cleared-dev/billconv/internal/config"
)

func newRulesCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect provider rule tables",
	}
	cmd.AddCommand(newRulesDumpCommand(v))
	return cmd
}

func newRulesDumpCommand(v *viper.Viper) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the effective rule tables as YAML",
		Long: `Dump writes the rule tables every provider would use, including any
--rules overrides. The output is a valid rules file to start editing from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadRegistry(v)
			if err != nil {
				return err
			}
			f := config.FromRegistry(reg)
			if out != "" {
				return config.Save(out, f)
			}
			data, err := config.Marshal(f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "write to this file instead of stdout")

	return cmd
}
