package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/decrypt/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize decrypt configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure decrypt for your blog and generates a .decrypt.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
