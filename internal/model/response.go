package model

type SSHTestResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

type InspectResponse struct {
	Success bool          `json:"success"`
	RunID   string        `json:"runId"`
	Nodes   []*NodeRecord `json:"nodes"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
