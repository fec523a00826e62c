package history

import (
	"time"

	"gorm.io/gorm"
)

type (
	// DeploymentRecord is one finished (or failed) deployment of the current
	// process run. The backing database is recreated on every start, so
	// records never outlive the process.
	DeploymentRecord struct {
		gorm.Model
		UUID           string `gorm:"uniqueIndex;not null"`
		Project        string `gorm:"index"`
		GpuType        string
		GpuCount       int
		InstanceType   string
		InstanceId     string `gorm:"index"`
		Hostname       string
		Location       string
		Ip             string
		Outcome        string
		Attempts       int
		ElapsedSeconds float64
		Warnings       string
		FailureReason  string
	}

	RecordFilter struct {
		Limit  int `form:"limit"`
		Offset int `form:"offset"`
	}

	DeploymentRecordOut struct {
		Id             string    `json:"id"`
		Project        string    `json:"project"`
		GpuType        string    `json:"gpuType"`
		GpuCount       int       `json:"gpuCount"`
		InstanceType   string    `json:"instanceType"`
		InstanceId     string    `json:"instanceId"`
		Hostname       string    `json:"hostname"`
		Location       string    `json:"location"`
		Ip             string    `json:"ip"`
		Outcome        string    `json:"outcome"`
		Attempts       int       `json:"attempts"`
		ElapsedSeconds float64   `json:"elapsedSeconds"`
		Warnings       []string  `json:"warnings"`
		FailureReason  string    `json:"failureReason,omitempty"`
		CreatedAt      time.Time `json:"createdAt"`
	}
)
