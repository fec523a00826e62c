package monitor

import "time"

type WatchState string

const (
	StateWatching  WatchState = "watching"
	StateFound     WatchState = "found"
	StateDeployed  WatchState = "deployed"
	StateExhausted WatchState = "exhausted"
	StateFailed    WatchState = "failed"
)

type (
	// Watch is a recurring spot-availability probe. When AutoDeploy is set,
	// the first successful probe hands the watch off to a deployment.
	Watch struct {
		Id            string
		GpuType       string
		GpuCount      int
		Location      string
		CheckInterval time.Duration
		MaxChecks     int
		ChecksDone    int
		AutoDeploy    bool
		Project       string
		VolumeId      string
		ScriptId      string
		State         WatchState
		FoundLocation string
		InstanceId    string
		LastError     string
		CreatedAt     time.Time
		NextCheck     *time.Time
	}

	WatchIn struct {
		GpuType       *string `json:"gpuType"`
		GpuCount      *int    `json:"gpuCount"`
		Location      *string `json:"location"`
		CheckInterval *int    `json:"checkInterval"`
		MaxChecks     *int    `json:"maxChecks"`
		AutoDeploy    *bool   `json:"autoDeploy"`
		Project       *string `json:"project"`
		VolumeId      *string `json:"volumeId"`
		ScriptId      *string `json:"scriptId"`
	}

	WatchOut struct {
		Id            string     `json:"id"`
		GpuType       string     `json:"gpuType"`
		GpuCount      int        `json:"gpuCount"`
		Location      string     `json:"location,omitempty"`
		CheckInterval int        `json:"checkInterval"`
		MaxChecks     int        `json:"maxChecks"`
		ChecksDone    int        `json:"checksDone"`
		AutoDeploy    bool       `json:"autoDeploy"`
		State         WatchState `json:"state"`
		FoundLocation string     `json:"foundLocation,omitempty"`
		InstanceId    string     `json:"instanceId,omitempty"`
		LastError     string     `json:"lastError,omitempty"`
		CreatedAt     time.Time  `json:"createdAt"`
	}
)

func watchToOut(watch Watch) WatchOut {
	return WatchOut{
		Id:            watch.Id,
		GpuType:       watch.GpuType,
		GpuCount:      watch.GpuCount,
		Location:      watch.Location,
		CheckInterval: int(watch.CheckInterval.Seconds()),
		MaxChecks:     watch.MaxChecks,
		ChecksDone:    watch.ChecksDone,
		AutoDeploy:    watch.AutoDeploy,
		State:         watch.State,
		FoundLocation: watch.FoundLocation,
		InstanceId:    watch.InstanceId,
		LastError:     watch.LastError,
		CreatedAt:     watch.CreatedAt,
	}
}
