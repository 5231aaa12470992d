package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/tvertner/Leonne.net/internal/cli/client"
	"github.com/tvertner/Leonne.net/pkg/api"
)

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the newest run's status",
		Run:   runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) {
	resp, err := client.SendRequest(http.MethodGet, "/generate/status", nil)
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
		fmt.Printf("Status failed: %s\n", string(body))
		return
	}

	var status api.StatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		fmt.Printf("Error: Failed to deserialize response - %v\n", err)
		return
	}

	switch status.Status {
	case "idle":
		fmt.Println("No runs yet")
	case "running":
		fmt.Printf("Run %d running since %s\n", status.RunID, status.StartedAt)
	case "done":
		result := status.LastResult
		verdict := "succeeded"
		if !result.Success {
			verdict = fmt.Sprintf("failed (%s)", *result.Cause)
		}
		fmt.Printf("Run %d %s at %s\n", status.RunID, verdict, result.FinishedAt)
		if result.Warning != "" {
			fmt.Printf("  warning: %s\n", result.Warning)
		}
		for _, stage := range result.Stages {
			line := fmt.Sprintf("  %-12s %s", stage.Name, stage.Status)
			if stage.Cause != "" {
				line += " (" + stage.Cause + ")"
			}
			fmt.Println(line)
		}
	default:
		fmt.Println(string(body))
	}
}
