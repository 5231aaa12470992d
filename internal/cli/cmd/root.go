package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tvertner/Leonne.net/internal/cli/client"
)

// RegisterCommands adds all available commands to the root command.
func RegisterCommands(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().String("server", "", "control server URL (or set LEONNE_SERVER)")
	rootCmd.PersistentFlags().String("token", "", "deploy token (or set DEPLOY_TOKEN)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		server, _ := cmd.Flags().GetString("server")
		token, _ := cmd.Flags().GetString("token")
		client.Configure(server, token)
	}

	rootCmd.AddCommand(NewTriggerCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewDoneCommand())
	rootCmd.AddCommand(NewDeployCommand())
}
