package client

type InstanceStatus string

const (
	StatusPending      InstanceStatus = "pending"
	StatusProvisioning InstanceStatus = "provisioning"
	StatusRunning      InstanceStatus = "running"
	StatusStopped      InstanceStatus = "stopped"
	StatusError        InstanceStatus = "error"
	StatusDeleted      InstanceStatus = "deleted"
)

const (
	ActionDelete   = "delete"
	ActionShutdown = "shutdown"
	ActionStart    = "boot"
)

type (
	Instance struct {
		Id              string         `json:"id"`
		Hostname        string         `json:"hostname"`
		Status          InstanceStatus `json:"status"`
		InstanceType    string         `json:"instance_type"`
		Ip              string         `json:"ip"`
		SshPort         int            `json:"ssh_port"`
		Location        string         `json:"location"`
		Image           string         `json:"image"`
		IsSpot          bool           `json:"is_spot"`
		StartupScriptId string         `json:"startup_script_id"`
		CreatedAt       string         `json:"created_at"`
	}

	CreateInstanceRequest struct {
		InstanceType    string   `json:"instance_type"`
		Image           string   `json:"image"`
		Hostname        string   `json:"hostname"`
		Description     string   `json:"description"`
		Location        string   `json:"location_code"`
		IsSpot          bool     `json:"is_spot"`
		SshKeyIds       []string `json:"ssh_key_ids"`
		StartupScriptId string   `json:"startup_script_id,omitempty"`
	}

	Volume struct {
		Id         string `json:"id"`
		Name       string `json:"name"`
		Size       int    `json:"size"`
		Type       string `json:"type"`
		Status     string `json:"status"`
		Location   string `json:"location"`
		InstanceId string `json:"instance_id"`
	}

	CreateVolumeRequest struct {
		Name     string `json:"name"`
		Size     int    `json:"size"`
		Type     string `json:"type"`
		Location string `json:"location_code,omitempty"`
	}

	Script struct {
		Id     string `json:"id"`
		Name   string `json:"name"`
		Script string `json:"script"`
	}

	SshKey struct {
		Id   string `json:"id"`
		Name string `json:"name"`
	}

	Image struct {
		Name      string `json:"name"`
		ImageType string `json:"image_type"`
	}

	// AvailabilityResult is the outcome of a capacity probe across locations.
	AvailabilityResult struct {
		Available    bool
		InstanceType string
		Location     string
	}
)

// locationCodes are probed in order when no location is pinned.
var locationCodes = []string{"FIN-01", "FIN-02", "FIN-03"}

var instanceTypes = map[string]map[int]string{
	"B300": {
		1: "1B300.30V",
		2: "2B300.60V",
		4: "4B300.120V",
		8: "8B300.240V",
	},
	"B200": {
		1: "1B200.30V",
		2: "2B200.60V",
		4: "4B200.120V",
		8: "8B200.240V",
	},
	"GB300": {
		1: "1GB300.36V",
		2: "2GB300.72V",
		4: "4GB300.144V",
	},
	"H200": {
		1: "1H200.141S.44V",
	},
}

// InstanceTypeFor maps a GPU model and count to the provider's instance type
// identifier. Unknown combinations yield an empty string.
func InstanceTypeFor(gpuType string, gpuCount int) string {
	counts, ok := instanceTypes[gpuType]
	if !ok {
		return ""
	}

	return counts[gpuCount]
}

// Locations returns the location codes the provider operates in.
func Locations() []string {
	locations := make([]string, len(locationCodes))
	copy(locations, locationCodes)

	return locations
}
