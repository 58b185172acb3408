package testsupport

import (
	"testing"

	"dubflow/internal/config"
)

// NewConfig produces ambient settings suitable for tests.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Bind = "127.0.0.1:0"
	return &cfg
}

// NewProcess produces a process identity with a per-test working directory.
func NewProcess(t testing.TB) *config.Process {
	t.Helper()
	return &config.Process{
		ProjectID:       "test-project",
		Region:          "europe-west1",
		ServiceAccount:  "dubflow@test-project.iam.gserviceaccount.com",
		DeploymentName:  "dubflow-test",
		PubSubTopic:     "dubbing-jobs",
		OutputDirectory: t.TempDir(),
	}
}
