package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "placeholders",
		Short: "Placeholder image service",
		Long: `placeholders generates SVG placeholder images.

Example usage:
  placeholders serve --config placeholders.yaml
  placeholders render --size 300x150 --text "Hello" --bgColor "#333"
  placeholders env`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); environment only when empty")

	root.AddCommand(
		newServeCmd(&cfgFile),
		newRenderCmd(),
		newEnvCmd(),
	)
	return root
}
