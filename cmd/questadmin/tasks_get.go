package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var tasksGetCmd = &cobra.Command{
	Use:   "get <task-id>",
	Short: "Show one quest",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksGet,
}

func runTasksGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client := newAPIClient()
	task, err := client.GetTask(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}

	if tasksJSONOutput {
		return printJSON(cmd.OutOrStdout(), task)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:       %s\n", task.ID)
	fmt.Fprintf(out, "Title:    %s\n", task.Title)
	fmt.Fprintf(out, "Type:     %s\n", task.Type)
	fmt.Fprintf(out, "Group:    %s\n", task.Group)
	if task.Provider != "" {
		fmt.Fprintf(out, "Provider: %s\n", task.Provider)
	}
	if task.URI != "" {
		fmt.Fprintf(out, "URI:      %s\n", task.URI)
	}
	fmt.Fprintf(out, "Reward:   %s\n", formatReward(task.Reward))
	fmt.Fprintf(out, "Enabled:  %t\n", task.Enabled)
	fmt.Fprintf(out, "Created:  %s\n", task.CreatedAt.Format("2006-01-02 15:04"))
	return nil
}
