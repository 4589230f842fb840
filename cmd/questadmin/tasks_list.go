package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waveline/questadmin/pkg/questapi"
)

var (
	listGroup    string
	listType     string
	listProvider string
	listSearch   string
	listPage     int
	listLimit    int
)

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List quests",
	Args:  cobra.NoArgs,
	RunE:  runTasksList,
}

func init() {
	tasksListCmd.Flags().StringVar(&listGroup, "group", "", "Filter by group")
	tasksListCmd.Flags().StringVar(&listType, "type", "", "Filter by task type")
	tasksListCmd.Flags().StringVar(&listProvider, "provider", "", "Filter by provider")
	tasksListCmd.Flags().StringVar(&listSearch, "search", "", "Search in titles")
	tasksListCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	tasksListCmd.Flags().IntVar(&listLimit, "limit", questapi.DefaultPageLimit, "Page size")
}

func runTasksList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client := newAPIClient()
	list, err := client.ListTasks(ctx, questapi.QuestSearch{
		Search:   listSearch,
		Group:    listGroup,
		Type:     listType,
		Provider: listProvider,
		Page:     listPage,
		Limit:    listLimit,
	})
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	if tasksJSONOutput {
		return printJSON(cmd.OutOrStdout(), list)
	}

	if len(list.Items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No quests found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tTYPE\tGROUP\tTITLE\tREWARD\tENABLED")
	for _, t := range list.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
			t.ID,
			t.Type,
			t.Group,
			t.Title,
			formatReward(t.Reward),
			t.Enabled,
		)
	}
	w.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d quests\n", len(list.Items), list.Total)
	return nil
}
