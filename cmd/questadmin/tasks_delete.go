package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var deleteForce bool

var tasksDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a quest and its children",
	Long:  "Permanently delete a quest. Children of a multiple quest are deleted with their parent. Requires --force or interactive confirmation.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksDelete,
}

func init() {
	tasksDeleteCmd.Flags().BoolVar(&deleteForce, "force", false,
		"Skip confirmation prompt")
}

func runTasksDelete(cmd *cobra.Command, args []string) error {
	taskID := args[0]
	ctx := context.Background()

	// Interactive confirmation unless --force
	if !deleteForce {
		errOut := cmd.ErrOrStderr()
		fmt.Fprintf(errOut, "WARNING: This will permanently delete quest %q and all its children.\n", taskID)
		fmt.Fprint(errOut, "Type the task ID to confirm: ")

		reader := bufio.NewReader(cmd.InOrStdin())
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}

		if strings.TrimSpace(input) != taskID {
			fmt.Fprintln(errOut, "Aborted. Task ID did not match.")
			return nil
		}
	}

	client := newAPIClient()
	if err := client.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	if tasksJSONOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"id":      taskID,
			"deleted": true,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted quest %q\n", taskID)
	return nil
}
