package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metropolia-apps/faq-core/internal/history"
)

const defaultServerURL = "http://localhost:2330"

var (
	rootCmd   *cobra.Command
	serverURL string
)

// Root builds the faqcli command tree.
func Root() *cobra.Command {
	if rootCmd != nil {
		return rootCmd
	}

	rootCmd = &cobra.Command{
		Use:   "faqcli",
		Short: "Ask questions about lecture material from the terminal",
		Long: `faqcli talks to a faq-core server: provide lecture material, ask a
question about it, get a focused answer. Successful exchanges are kept
in a local history capped at the ten most recent entries.

Quick start:
  faqcli ask --text-file notes.txt "What is photosynthesis?"
  faqcli history
  faqcli health`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"server base URL (default FAQ_SERVER_URL or "+defaultServerURL+")")

	rootCmd.AddCommand(
		askCmd(),
		historyCmd(),
		healthCmd(),
	)
	return rootCmd
}

func resolveServerURL() string {
	if v := strings.TrimSpace(serverURL); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("FAQ_SERVER_URL")); v != "" {
		return v
	}
	return defaultServerURL
}

// baseDir is where faqcli keeps its local state. Overridable for tests
// and shared machines.
func baseDir() string {
	if v := strings.TrimSpace(os.Getenv("FAQ_CLI_DIR")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".faq-core"
	}
	return filepath.Join(home, ".faq-core")
}

func historyStore() *history.Store {
	return history.NewStore(filepath.Join(baseDir(), "history.json"))
}
