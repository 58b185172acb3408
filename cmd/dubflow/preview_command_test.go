package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"dubflow/internal/sheets"
	"dubflow/internal/testsupport"
)

const worksheetURL = "https://docs.google.com/spreadsheets/d/abc123/edit"

func fakeClientContext(client sheets.Client) *commandContext {
	configFlag := ""
	ctx := newCommandContext(&configFlag)
	ctx.newClient = func(context.Context) (sheets.Client, error) {
		return client, nil
	}
	return ctx
}

func previewFixtureClient() *testsupport.FakeSheetClient {
	return &testsupport.FakeSheetClient{
		Tables: map[string][][]string{
			"ops": {
				{"variable", "value"},
				{"DUBBING_CONFIG", "dubbing"},
			},
			"dubbing": {
				{"campaign_name", "video_url", "target_language", "output_naming_convention", "output_bucket"},
				{"summer", "gs://media/in.mp4", "['fr-FR','de-DE']", "{campaign_name}_{target_language}", "out-bucket"},
				{"broken", "gs://media/in.mp4", "['not a tag!']", "{campaign_name}", "out-bucket"},
			},
		},
	}
}

func TestPreviewRendersRows(t *testing.T) {
	cmd := newPreviewCommand(fakeClientContext(previewFixtureClient()))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{worksheetURL})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("preview returned error: %v", err)
	}

	rendered := out.String()
	if !strings.Contains(rendered, "summer") {
		t.Errorf("output missing valid row: %s", rendered)
	}
	if !strings.Contains(rendered, "fr-FR, de-DE") {
		t.Errorf("output missing languages: %s", rendered)
	}
	if !strings.Contains(rendered, "ready") {
		t.Errorf("valid row not marked ready: %s", rendered)
	}
	if !strings.Contains(rendered, "2 rows") || !strings.Contains(rendered, "1 invalid") {
		t.Errorf("summary line wrong: %s", rendered)
	}
}

func TestPreviewRequiresDubbingConfig(t *testing.T) {
	client := previewFixtureClient()
	client.Tables["ops"] = [][]string{{"variable", "value"}}

	cmd := newPreviewCommand(fakeClientContext(client))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{worksheetURL})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when DUBBING_CONFIG is absent")
	}
}
