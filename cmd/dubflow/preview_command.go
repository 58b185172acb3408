package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dubflow/internal/jobspec"
	"dubflow/internal/sheets"
)

// newPreviewCommand renders how each sheet row would dispatch, without
// publishing anything. Invalid rows show the validation message the splitter
// would write back.
func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var toolSheet string

	cmd := &cobra.Command{
		Use:   "preview <worksheet-url>",
		Short: "Show how sheet rows would dispatch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.newClient(cmd.Context())
			if err != nil {
				return fmt.Errorf("create sheets client: %w", err)
			}
			worksheetURL := args[0]

			toolTable, err := sheets.LoadTable(cmd.Context(), client, worksheetURL, toolSheet)
			if err != nil {
				return err
			}
			tool := jobspec.ToolConfig(toolTable)
			dubbingSheet := tool[jobspec.ToolKeyDubbingConfig]
			if dubbingSheet == "" {
				return fmt.Errorf("tool config sheet %q has no DUBBING_CONFIG entry", toolSheet)
			}

			rowTable, err := sheets.LoadTable(cmd.Context(), client, worksheetURL, dubbingSheet)
			if err != nil {
				return err
			}
			rows := jobspec.MergedRows(rowTable)

			out := cmd.OutOrStdout()
			color := shouldColorize(out)

			headers := []string{"Row", "Campaign", "Languages", "Video", "Output Bucket", "Result"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}
			tableRows := make([][]string, 0, len(rows))
			invalid := 0
			for i, record := range rows {
				line, err := jobspec.ParseRow(record, i)
				if err != nil {
					invalid++
					tableRows = append(tableRows, []string{
						strconv.Itoa(sheets.RowNumber(i)),
						truncate(record["campaign_name"], 24),
						"",
						truncate(record["video_url"], 40),
						"",
						colorize(truncate(err.Error(), 60), ansiRed, color),
					})
					continue
				}
				tableRows = append(tableRows, []string{
					strconv.Itoa(sheets.RowNumber(i)),
					truncate(line.CampaignName, 24),
					strings.Join(line.TargetLanguages, ", "),
					truncate(line.VideoURL, 40),
					truncate(line.OutputBucket, 24),
					colorize("ready", ansiGreen, color),
				})
			}

			if color {
				fmt.Fprintln(out, renderTable(headers, tableRows, aligns))
			} else {
				// Plain rows pipe into cut/awk cleanly.
				fmt.Fprintln(out, strings.Join(headers, " | "))
				for _, row := range tableRows {
					fmt.Fprintln(out, strings.Join(row, " | "))
				}
			}
			fmt.Fprintf(out, "%d rows on %q, %d invalid\n", len(rows), dubbingSheet, invalid)
			return nil
		},
	}

	cmd.Flags().StringVar(&toolSheet, "tool-config", "ops", "Worksheet holding the tool configuration")
	return cmd
}
