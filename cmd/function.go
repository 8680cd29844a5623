package cmd

import (
	"github.com/spf13/cobra"

	"github.com/brastorne/lebo/api"
)

var functionCmd = &cobra.Command{
	Use:   "function",
	Short: "Run only the function-compatible chat surface",
	Long: `Function serves the serverless-style surface on its own:
POST /functions/v1/chat-query with permissive CORS, plus the health
probes. Use serve to expose the full API.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServer(cmd, api.NewFunctionServer)
	},
}

func init() {
	functionCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(functionCmd)
}
