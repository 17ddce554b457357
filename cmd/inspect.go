package commands

import (
	"fmt"

	"github.com/YaLTeR/circular-queue/snapshot"
	"github.com/YaLTeR/circular-queue/steps"
	"github.com/spf13/cobra"
)

func createInspectCmd() *cobra.Command {
	var order string
	inspectCmd := &cobra.Command{
		Use:   "inspect [flags] state-file",
		Short: "print the history stored in a state file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := steps.ParseOrder(order)
			if err != nil {
				return err
			}

			queue, err := snapshot.Read[steps.Entry](args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "capacity: %d\nrecords: %d\n", queue.Cap(), queue.Len())
			for e := range steps.NewHistory(queue, o).Entries() {
				fmt.Fprintf(w, "%s:%d\t%s\n", e.File, e.RecNum, e.Line)
			}
			return nil
		},
	}

	inspectCmd.Flags().StringVar(
		&order,
		"order",
		"newest",
		"print order: oldest or newest first")

	return inspectCmd
}
