package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metropolia-apps/faq-core/client"
	"github.com/metropolia-apps/faq-core/internal/history"
	"github.com/metropolia-apps/faq-core/internal/validate"
)

func askCmd() *cobra.Command {
	var text string
	var textFile string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about lecture material",
		Long: `Ask sends lecture material and a question to the server and prints
the answer. The material comes from --text or --text-file; the question
from the arguments or, when omitted, from stdin.`,
		Example: `  faqcli ask --text-file notes.txt "What is photosynthesis?"
  faqcli ask --text "$(cat notes.txt)" What topics are covered?
  echo "What is photosynthesis?" | faqcli ask --text-file notes.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(args, text, textFile)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "lecture material to ask about")
	cmd.Flags().StringVar(&textFile, "text-file", "", "read lecture material from a file")
	return cmd
}

func runAsk(args []string, text, textFile string) error {
	if textFile != "" {
		data, err := os.ReadFile(textFile)
		if err != nil {
			return fmt.Errorf("read text file: %w", err)
		}
		text = string(data)
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		question = readStdin()
	}

	// Validate locally before any network traffic; the messages are the
	// same ones the server would return.
	q, fieldErr := validate.ValidateQuery(text, question)
	if fieldErr != nil {
		return errors.New(fieldErr.Message)
	}

	ctx, cancel := context.WithTimeout(context.Background(), client.DefaultTimeout)
	defer cancel()

	answer, err := client.New(resolveServerURL()).Ask(ctx, q.Text, q.Question)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return errors.New(apiErr.Message)
		}
		return fmt.Errorf("could not reach server: %w", err)
	}

	fmt.Println(answer)

	// History is a convenience; a failed write must not mask the answer.
	if err := historyStore().Append(history.NewEntry(q.Text, q.Question)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not update history: %v\n", err)
	}
	return nil
}

func readStdin() string {
	stat, err := os.Stdin.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return ""
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
