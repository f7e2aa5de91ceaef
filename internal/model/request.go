package model

type SSHTestRequest struct {
	IP       string `json:"ip" binding:"required"`
	Port     int    `json:"port"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// InspectRequest starts a cluster inspection from a seed node.
type InspectRequest struct {
	NodeIP      string `json:"node_ip" binding:"required"`
	Port        int    `json:"port"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	IncludeSeed bool   `json:"include_seed"`
	Format      string `json:"format"`
	FetchDir    string `json:"-"`
}
