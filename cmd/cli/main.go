package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tvertner/Leonne.net/internal/cli/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "leonnectl",
		Short: "Control client for the daily edition pipeline server",
	}
	cmd.RegisterCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
