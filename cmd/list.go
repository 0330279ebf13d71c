package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskwatch/internal/board"
	"github.com/twiced-technology-gmbh/taskwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/taskwatch/internal/output"
	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Parses the task directory once and lists its tasks with optional filtering,
sorting, and output format control.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("sequence", "", "filter by sequence ID (comma-separated)")
	listCmd.Flags().String("status", "", "filter by status (comma-separated)")
	listCmd.Flags().String("exclude-status", "", "exclude statuses (comma-separated)")
	listCmd.Flags().String("agent", "", "filter by agent (case-insensitive)")
	listCmd.Flags().String("priority", "", "filter by priority (case-insensitive)")
	listCmd.Flags().StringP("search", "s", "", "search task ID, name, and agent (case-insensitive)")
	listCmd.Flags().Bool("unblocked", false, "show only tasks whose dependencies are complete or deferred")
	listCmd.Flags().String("sort", board.SortSequence, "sort field ("+strings.Join(board.ValidSortFields(), ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	listCmd.Flags().String("group-by", "", "group results by field ("+strings.Join(board.ValidGroupByFields(), ", ")+")")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	sequences, _ := cmd.Flags().GetString("sequence")
	statusArg, _ := cmd.Flags().GetString("status")
	excludeArg, _ := cmd.Flags().GetString("exclude-status")
	agent, _ := cmd.Flags().GetString("agent")
	priority, _ := cmd.Flags().GetString("priority")
	search, _ := cmd.Flags().GetString("search")
	unblocked, _ := cmd.Flags().GetBool("unblocked")
	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")
	groupBy, _ := cmd.Flags().GetString("group-by")

	if groupBy != "" && !slices.Contains(board.ValidGroupByFields(), groupBy) {
		return clierr.Newf(clierr.InvalidGroupBy, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(board.ValidGroupByFields(), ", "))
	}
	if !slices.Contains(board.ValidSortFields(), sortBy) {
		return clierr.Newf(clierr.InvalidSort, "invalid --sort field %q; valid: %s",
			sortBy, strings.Join(board.ValidSortFields(), ", "))
	}
	statuses, err := board.ParseStatuses(statusArg)
	if err != nil {
		return err
	}
	excluded, err := board.ParseStatuses(excludeArg)
	if err != nil {
		return err
	}

	snap, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	tasks := board.List(snap.Tasks, board.ListOptions{
		Filter: board.FilterOptions{
			Sequences:       board.ParseSequences(sequences),
			Statuses:        statuses,
			ExcludeStatuses: excluded,
			Agent:           agent,
			Priority:        priority,
			Search:          search,
		},
		SortBy:    sortBy,
		Reverse:   reverse,
		Limit:     limit,
		Unblocked: unblocked,
	})

	if groupBy != "" {
		return outputGroupedList(tasks, groupBy)
	}
	return outputTaskList(tasks, board.NewResolver(snap.Tasks))
}

func outputGroupedList(tasks []task.Task, groupBy string) error {
	grouped := board.GroupBy(tasks, groupBy)
	if done, err := writeData(grouped); done {
		return err
	}
	output.GroupedTable(os.Stdout, grouped)
	return nil
}

func outputTaskList(tasks []task.Task, r *board.Resolver) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	if done, err := writeData(tasks); done {
		return err
	}
	if outputFormat() == output.FormatCompact {
		output.TaskCompact(os.Stdout, tasks)
		return nil
	}
	output.TaskTable(os.Stdout, tasks, r)
	return nil
}
