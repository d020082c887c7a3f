package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "substbot",
		Short: "Substitution schedule notification bot",
		Long: "substbot watches the school's EduPage substitution schedule and notifies " +
			"Telegram members about changes for their class.",
		SilenceUsage: true,
		RunE:         runBot,
	}

	rootCmd.AddCommand(newRunCmd(), newCheckCmd(), newClassesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
