package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/tvertner/Leonne.net/internal/cli/client"
)

// NewDeployCommand creates the deploy command for pushing a rendered
// edition by hand, outside a pipeline run.
func NewDeployCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy <file>",
		Short: "Deploy a rendered edition HTML file",
		Args:  cobra.ExactArgs(1),
		Run:   runDeploy,
	}
}

func runDeploy(cmd *cobra.Command, args []string) {
	file, err := os.Open(args[0])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer file.Close()

	resp, err := client.SendFile(http.MethodPost, "/deploy", file)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	body, err := client.ReadResponseBody(resp)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Deploy failed: %s\n", string(body))
		return
	}
	fmt.Println("Edition deployed")
}
