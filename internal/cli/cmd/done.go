package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/tvertner/Leonne.net/internal/cli/client"
)

// NewDoneCommand creates the done command, mirroring /generate/done.
func NewDoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "done",
		Short: "Print yes, no, or error for the newest run",
		Run:   runDone,
	}
}

func runDone(cmd *cobra.Command, args []string) {
	resp, err := client.SendRequest(http.MethodGet, "/generate/done", nil)
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
	fmt.Println(string(body))
}
