// cmd/root.go
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "equiptrack",
	Short: "Equipment loan tracking service",
	Long:  "EquipTrack tracks shared equipment: quantities, borrow/return lifecycle and the approval workflow in front of it.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to the TOML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncfixCmd)
}
