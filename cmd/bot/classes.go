package main

import (
	"fmt"
	"strconv"
	"strings"

	"substitution_notification_bot/internal/domain/catalog"

	"github.com/spf13/cobra"
)

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes [grade]",
		Short: "List the class labels members can select",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := catalog.Default()
			grades := c.Grades()
			if len(args) == 1 {
				grade, err := strconv.Atoi(args[0])
				if err != nil || !catalog.ValidGrade(grade) {
					return fmt.Errorf("grade must be a number between %d and %d", catalog.MinGrade, catalog.MaxGrade)
				}
				grades = []int{grade}
			}

			for _, g := range grades {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", g, strings.Join(c.Classes(g), ", "))
			}
			return nil
		},
	}
}
