package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// newDispatchCommand triggers a running splitter over HTTP. The splitter does
// the sheet reads and publishes; this command only reports the outcome.
func newDispatchCommand(ctx *commandContext) *cobra.Command {
	var toolSheet string
	var endpoint string

	cmd := &cobra.Command{
		Use:   "dispatch <worksheet-url>",
		Short: "Dispatch every sheet row to the job topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(endpoint)
			if target == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				target = "http://" + cfg.Server.Bind
			}
			target = strings.TrimSuffix(target, "/") + "/splitter"

			body, err := json.Marshal(map[string]string{
				"worksheet_url":          args[0],
				"tool_config_sheet_name": toolSheet,
			})
			if err != nil {
				return fmt.Errorf("encode request: %w", err)
			}

			client := &http.Client{Timeout: 10 * time.Minute}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, target, bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("build request: %w", err)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("call splitter at %s: %w", target, err)
			}
			defer resp.Body.Close()

			responseBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read splitter response: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("splitter returned %d: %s", resp.StatusCode, strings.TrimSpace(string(responseBody)))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Dispatched: %s\n", strings.TrimSpace(string(responseBody)))
			return nil
		},
	}

	cmd.Flags().StringVar(&toolSheet, "tool-config", "ops", "Worksheet holding the tool configuration")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Base URL of a running dubflowd (defaults to the configured bind address)")
	return cmd
}
