package main

import (
	"fmt"
	"os"

	"github.com/metropolia-apps/faq-core/cmd/faqcli/commands"
)

func main() {
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
