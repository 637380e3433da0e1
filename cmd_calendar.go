package main

import (
	"encoding/json"
	"time"

	"calligraphy-cms/internal/domain/calendar"

	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar [YYYY-MM-DD]",
	Short: "Print the traditional reading of a date (today by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := ""
		if len(args) == 1 {
			raw = args[0]
		}
		t, err := calendar.ParseDate(raw, time.Now())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(calendar.Resolve(t))
	},
}
