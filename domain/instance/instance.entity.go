package instance

import (
	"verdaBackend/client"
	"verdaBackend/deployment"
)

type (
	InstanceOut struct {
		Id           string                `json:"id"`
		Hostname     string                `json:"hostname"`
		Status       client.InstanceStatus `json:"status"`
		InstanceType string                `json:"instanceType"`
		Ip           string                `json:"ip"`
		SshPort      int                   `json:"sshPort"`
		SshCommand   string                `json:"sshCommand,omitempty"`
		Location     string                `json:"location"`
		Image        string                `json:"image"`
		IsSpot       bool                  `json:"isSpot"`
	}

	// DeployIn is the agent-facing deployment payload. Every field is
	// optional and falls back to the configured defaults.
	DeployIn struct {
		Project      *string `json:"project"`
		GpuType      *string `json:"gpuType"`
		GpuCount     *int    `json:"gpuCount"`
		Image        *string `json:"image"`
		Hostname     *string `json:"hostname"`
		Location     *string `json:"location"`
		Description  *string `json:"description"`
		UseSpot      *bool   `json:"useSpot"`
		VolumeId     *string `json:"volumeId"`
		ScriptId     *string `json:"scriptId"`
		ReadyTimeout *int    `json:"readyTimeout"`
		PollInterval *int    `json:"pollInterval"`
	}

	WaitIn struct {
		ReadyTimeout *int `json:"readyTimeout"`
		PollInterval *int `json:"pollInterval"`
	}

	DeployOut struct {
		DeploymentId   string             `json:"deploymentId,omitempty"`
		Outcome        deployment.Outcome `json:"outcome"`
		Attempts       int                `json:"attempts"`
		ElapsedSeconds float64            `json:"elapsedSeconds"`
		Instance       InstanceOut        `json:"instance"`
		Warnings       []string           `json:"warnings"`
		FailureReason  string             `json:"failureReason,omitempty"`
	}
)

func instanceToOut(instance client.Instance) InstanceOut {
	out := InstanceOut{
		Id:           instance.Id,
		Hostname:     instance.Hostname,
		Status:       instance.Status,
		InstanceType: instance.InstanceType,
		Ip:           instance.Ip,
		SshPort:      instance.SshPort,
		Location:     instance.Location,
		Image:        instance.Image,
		IsSpot:       instance.IsSpot,
	}

	if out.Ip != "" {
		port := out.SshPort
		if port == 0 {
			port = 22
		}

		out.SshCommand = sshCommand(out.Ip, port)
	}

	return out
}
