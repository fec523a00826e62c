package script

type (
	ScriptOut struct {
		Id     string `json:"id"`
		Name   string `json:"name"`
		Script string `json:"script,omitempty"`
	}

	ScriptIn struct {
		Name       string `json:"name" binding:"required"`
		Script     string `json:"script" binding:"required"`
		SetDefault bool   `json:"setDefault"`
	}

	DefaultIn struct {
		ScriptId string `json:"scriptId" binding:"required"`
	}
)
