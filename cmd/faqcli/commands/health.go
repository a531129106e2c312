package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/metropolia-apps/faq-core/client"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := client.New(resolveServerURL()).Health(ctx); err != nil {
				return fmt.Errorf("server unhealthy: %w", err)
			}
			fmt.Println("ok")
			return nil
		},
	}
}
