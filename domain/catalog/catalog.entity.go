package catalog

type (
	SshKeyOut struct {
		Id   string `json:"id"`
		Name string `json:"name"`
	}

	ImageOut struct {
		Name      string `json:"name"`
		ImageType string `json:"imageType"`
	}

	GpuOptionOut struct {
		GpuType       string   `json:"gpuType"`
		GpuCounts     []int    `json:"gpuCounts"`
		InstanceTypes []string `json:"instanceTypes"`
	}

	AvailabilityIn struct {
		GpuType  string `form:"gpuType"`
		GpuCount int    `form:"gpuCount"`
		Location string `form:"location"`
	}

	AvailabilityOut struct {
		GpuType      string `json:"gpuType"`
		GpuCount     int    `json:"gpuCount"`
		InstanceType string `json:"instanceType"`
		Available    bool   `json:"available"`
		Location     string `json:"location,omitempty"`
	}
)
