package config_test

import (
	"strings"
	"testing"

	"dubflow/internal/config"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PROJECT_ID", "demo-project")
	t.Setenv("REGION", "europe-west1")
	t.Setenv("SERVICE_ACCOUNT", "dubflow@demo-project.iam.gserviceaccount.com")
	t.Setenv("DEPLOYMENT_NAME", "dubflow-test")
	t.Setenv("PUBSUB_TOPIC", "")
	t.Setenv("OUTPUT_DIRECTORY", "")
}

func TestFromEnvSplitterRequiresTopic(t *testing.T) {
	setBaseEnv(t)
	if _, err := config.FromEnv(config.RoleSplitter); err == nil {
		t.Fatal("expected error for missing PUBSUB_TOPIC")
	} else if !strings.Contains(err.Error(), "PUBSUB_TOPIC") {
		t.Fatalf("error should name the missing variable: %v", err)
	}

	t.Setenv("PUBSUB_TOPIC", "dubbing-jobs")
	proc, err := config.FromEnv(config.RoleSplitter)
	if err != nil {
		t.Fatalf("FromEnv returned error: %v", err)
	}
	if proc.PubSubTopic != "dubbing-jobs" {
		t.Fatalf("unexpected topic: %q", proc.PubSubTopic)
	}
}

func TestFromEnvWorkerRequiresOutputDirectory(t *testing.T) {
	setBaseEnv(t)
	if _, err := config.FromEnv(config.RoleWorker); err == nil {
		t.Fatal("expected error for missing OUTPUT_DIRECTORY")
	}

	t.Setenv("OUTPUT_DIRECTORY", t.TempDir())
	if _, err := config.FromEnv(config.RoleWorker); err != nil {
		t.Fatalf("FromEnv returned error: %v", err)
	}
}

func TestFromEnvListsAllMissing(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PROJECT_ID", "")
	t.Setenv("REGION", "")
	_, err := config.FromEnv(config.RoleBoth)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, name := range []string{"PROJECT_ID", "REGION", "PUBSUB_TOPIC", "OUTPUT_DIRECTORY"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error should list %s: %v", name, err)
		}
	}
}

func TestParseRole(t *testing.T) {
	if role, err := config.ParseRole(""); err != nil || role != config.RoleBoth {
		t.Fatalf("empty role should default to both: %v %v", role, err)
	}
	if _, err := config.ParseRole("publisher"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
