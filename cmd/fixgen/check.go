package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maciejwalesiak/easyfix/internal/dictionary"
	"github.com/maciejwalesiak/easyfix/internal/schema"
)

var checkCmd = &cobra.Command{
	Use:   "check <dictionary.xml> [...]",
	Short: "Validate and compile dictionaries without emitting code",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			dict, err := dictionary.LoadFile(path)
			if err != nil {
				color.Red("%v", err)
				failed++
				continue
			}
			s, err := schema.Compile(dict)
			if err != nil {
				color.Red("%s: %v", path, err)
				failed++
				continue
			}
			color.Green("%s: ok (%s, %d messages, %d groups, %d enums)",
				path, s.BeginString, len(s.Messages), len(s.Groups), len(s.Enums))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d dictionaries failed", failed, len(args))
		}
		return nil
	},
}
