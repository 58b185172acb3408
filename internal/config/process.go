package config

import (
	"fmt"
	"os"
	"strings"
)

// Role selects which entry points a dubflowd process serves.
type Role string

const (
	RoleSplitter Role = "splitter"
	RoleWorker   Role = "worker"
	RoleBoth     Role = "both"
)

// ParseRole validates a role flag value.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleSplitter:
		return RoleSplitter, nil
	case RoleWorker:
		return RoleWorker, nil
	case RoleBoth, "":
		return RoleBoth, nil
	default:
		return "", fmt.Errorf("role must be splitter, worker, or both, got %q", value)
	}
}

// Process holds the deployment identity read from the environment. Absence of
// any identifier required for the configured role is a fatal startup
// condition; no row is touched before the preflight passes.
type Process struct {
	ProjectID       string
	Region          string
	ServiceAccount  string
	DeploymentName  string
	PubSubTopic     string
	OutputDirectory string
}

const (
	envProjectID       = "PROJECT_ID"
	envRegion          = "REGION"
	envServiceAccount  = "SERVICE_ACCOUNT"
	envDeploymentName  = "DEPLOYMENT_NAME"
	envPubSubTopic     = "PUBSUB_TOPIC"
	envOutputDirectory = "OUTPUT_DIRECTORY"
)

// FromEnv reads and validates the process identity for the given role.
func FromEnv(role Role) (*Process, error) {
	proc := &Process{
		ProjectID:       os.Getenv(envProjectID),
		Region:          os.Getenv(envRegion),
		ServiceAccount:  os.Getenv(envServiceAccount),
		DeploymentName:  os.Getenv(envDeploymentName),
		PubSubTopic:     os.Getenv(envPubSubTopic),
		OutputDirectory: os.Getenv(envOutputDirectory),
	}

	required := []struct {
		name  string
		value string
	}{
		{envProjectID, proc.ProjectID},
		{envRegion, proc.Region},
		{envServiceAccount, proc.ServiceAccount},
		{envDeploymentName, proc.DeploymentName},
	}
	if role == RoleSplitter || role == RoleBoth {
		required = append(required, struct {
			name  string
			value string
		}{envPubSubTopic, proc.PubSubTopic})
	}
	if role == RoleWorker || role == RoleBoth {
		required = append(required, struct {
			name  string
			value string
		}{envOutputDirectory, proc.OutputDirectory})
	}

	var missing []string
	for _, item := range required {
		if strings.TrimSpace(item.value) == "" {
			missing = append(missing, item.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return proc, nil
}
