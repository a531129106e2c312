package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent exchanges, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList()
		},
	}
	cmd.AddCommand(historyClearCmd())
	return cmd
}

func historyClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Erase the stored history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear history without --yes")
			}
			if err := historyStore().Clear(); err != nil {
				return err
			}
			fmt.Println("history cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm erasing the history")
	return cmd
}

func runHistoryList() error {
	entries := historyStore().Load()
	if len(entries) == 0 {
		fmt.Println("no history yet")
		return nil
	}

	for i, entry := range entries {
		fmt.Printf("%2d. [%s] %s\n", i+1, entry.Timestamp, entry.Question)
		fmt.Printf("    text: %s\n", summarize(entry.Text, 80))
	}
	return nil
}

func summarize(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
