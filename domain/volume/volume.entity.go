package volume

type (
	VolumeOut struct {
		Id         string `json:"id"`
		Name       string `json:"name"`
		Size       int    `json:"size"`
		Type       string `json:"type"`
		Status     string `json:"status"`
		Location   string `json:"location"`
		InstanceId string `json:"instanceId,omitempty"`
	}

	VolumeIn struct {
		Name     string  `json:"name" binding:"required"`
		Size     *int    `json:"size"`
		Type     *string `json:"type"`
		Location *string `json:"location"`
	}

	AttachIn struct {
		InstanceId string `json:"instanceId" binding:"required"`
	}
)
