package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/tvertner/Leonne.net/internal/cli/client"
	"github.com/tvertner/Leonne.net/pkg/api"
)

// NewTriggerCommand creates the trigger command.
func NewTriggerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Start an edition generation run",
		Run:   runTrigger,
	}
}

func runTrigger(cmd *cobra.Command, args []string) {
	resp, err := client.SendRequest(http.MethodPost, "/generate", nil)
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

	switch resp.StatusCode {
	case http.StatusAccepted:
		var started api.StartResponse
		if err := json.Unmarshal(body, &started); err != nil {
			fmt.Printf("Error: Failed to deserialize response - %v\n", err)
			return
		}
		fmt.Printf("Started run %d at %s\n", started.RunID, started.StartedAt)
	case http.StatusConflict:
		var busy api.BusyResponse
		if err := json.Unmarshal(body, &busy); err == nil && busy.StartedAt != "" {
			fmt.Printf("Busy: a run has been in flight since %s\n", busy.StartedAt)
			return
		}
		fmt.Println("Busy: a run is already in flight")
	default:
		fmt.Printf("Trigger failed: %s\n", string(body))
	}
}
