package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/waveline/questadmin/pkg/questapi"
)

var (
	tasksServerURL  string
	tasksJSONOutput bool
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage quests on a running service",
	Long:  "List, inspect, and delete quests over the HTTP API without opening the dashboard.",
}

func init() {
	tasksCmd.PersistentFlags().StringVar(&tasksServerURL, "server", "http://localhost:8080",
		"Base URL of the quest admin service")
	tasksCmd.PersistentFlags().BoolVar(&tasksJSONOutput, "json", false,
		"Output in JSON format")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksGetCmd)
	tasksCmd.AddCommand(tasksDeleteCmd)
}

// newAPIClient builds a client for the configured server. The API key is
// read from the environment so it never appears in shell history.
func newAPIClient() *questapi.Client {
	token := os.Getenv("QUESTADMIN_API_KEY")
	return questapi.New(tasksServerURL, questapi.NewStaticTokenSource(token))
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// formatReward renders a reward amount without trailing zeros.
func formatReward(reward float64) string {
	return fmt.Sprintf("%g", reward)
}
