package service

import (
	"fmt"
	"strings"

	"pgha-inspect/internal/config"
	"pgha-inspect/internal/model"
	"pgha-inspect/internal/pkg/logger"
	"pgha-inspect/internal/pkg/ssh"
	"pgha-inspect/pkg/utils"
)

type SSHService struct {
	config config.SSHConfig
	logger *logger.Logger
}

func NewSSHService(cfg config.SSHConfig, logger *logger.Logger) *SSHService {
	return &SSHService{
		config: cfg,
		logger: logger,
	}
}

// Connector returns a Connector that dials every host with the same
// credentials. A zero port falls back to the configured SSH port.
func (s *SSHService) Connector(port int, username, password string) Connector {
	if port == 0 {
		port = s.config.Port
	}
	return &SSHConnector{
		service:  s,
		port:     port,
		username: username,
		password: password,
	}
}

func (s *SSHService) dial(host string, port int, username, password string) (*ssh.Client, error) {
	if err := utils.ValidateHost(host); err != nil {
		return nil, err
	}
	if err := utils.ValidatePort(port); err != nil {
		return nil, err
	}

	s.logger.SSHConnectionAttempt(host, port, username)

	client := ssh.NewClient(ssh.Config{
		Host:           host,
		Port:           port,
		Username:       username,
		Password:       password,
		Timeout:        s.config.Timeout(),
		KnownHostsFile: s.config.KnownHostsFile,
	})
	if err := client.Connect(); err != nil {
		s.logger.ConnectionFailed(host, err)
		return nil, err
	}
	return client, nil
}

// TestConnection opens a session and runs a couple of harmless probes.
func (s *SSHService) TestConnection(req *model.SSHTestRequest) *model.SSHTestResponse {
	port := req.Port
	if port == 0 {
		port = s.config.Port
	}

	client, err := s.dial(req.IP, port, req.Username, req.Password)
	if err != nil {
		return &model.SSHTestResponse{
			Success: false,
			Message: "SSH connection test failed",
			Details: []string{
				"✗ SSH connection failed",
				fmt.Sprintf("Error: %s", err.Error()),
			},
		}
	}
	defer client.Close()

	details := []string{"✓ SSH connection established"}

	if result, err := client.Execute("whoami"); err == nil {
		details = append(details, fmt.Sprintf("✓ Current user: %s", strings.TrimSpace(result.Stdout)))
	}

	if result, err := client.Execute("uname -a"); err == nil {
		details = append(details, fmt.Sprintf("✓ System: %s", strings.TrimSpace(result.Stdout)))
	}

	s.logger.Info("SSH connection test succeeded")
	return &model.SSHTestResponse{
		Success: true,
		Message: "SSH connection test succeeded",
		Details: details,
	}
}

type SSHConnector struct {
	service  *SSHService
	port     int
	username string
	password string
}

func (c *SSHConnector) Connect(host string) (RemoteSession, error) {
	client, err := c.service.dial(host, c.port, c.username, c.password)
	if err != nil {
		return nil, err
	}
	return client, nil
}
