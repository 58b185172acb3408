package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDispatchPostsToSplitter(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "OK")
	}))
	defer server.Close()

	configFlag := ""
	cmd := newDispatchCommand(newCommandContext(&configFlag))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{worksheetURL, "--endpoint", server.URL, "--tool-config", "ops"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("dispatch returned error: %v", err)
	}
	if gotPath != "/splitter" {
		t.Errorf("posted to %q", gotPath)
	}
	if gotBody["worksheet_url"] != worksheetURL {
		t.Errorf("worksheet_url = %q", gotBody["worksheet_url"])
	}
	if gotBody["tool_config_sheet_name"] != "ops" {
		t.Errorf("tool_config_sheet_name = %q", gotBody["tool_config_sheet_name"])
	}
	if !strings.Contains(out.String(), "Dispatched: OK") {
		t.Errorf("output = %q", out.String())
	}
}

func TestDispatchReportsSplitterFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Error sheet error", http.StatusInternalServerError)
	}))
	defer server.Close()

	configFlag := ""
	cmd := newDispatchCommand(newCommandContext(&configFlag))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{worksheetURL, "--endpoint", server.URL})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for non-200 splitter response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("error = %v", err)
	}
}
