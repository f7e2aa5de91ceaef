package patroni

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultLogDir = "/var/log/patroni"

var ErrEmptyConfig = errors.New("patroni configuration is empty")

// Config is the subset of patroni.yml this tool reads.
type Config struct {
	Scope      string            `yaml:"scope"`
	Name       string            `yaml:"name"`
	Etcd       EtcdSection       `yaml:"etcd"`
	Etcd3      EtcdSection       `yaml:"etcd3"`
	Log        LogSection        `yaml:"log"`
	PostgreSQL PostgreSQLSection `yaml:"postgresql"`
}

type EtcdSection struct {
	Host  string   `yaml:"host"`
	Hosts HostList `yaml:"hosts"`
}

type LogSection struct {
	Dir string `yaml:"dir"`
}

type PostgreSQLSection struct {
	DataDir    string                 `yaml:"data_dir"`
	Parameters map[string]interface{} `yaml:"parameters"`
}

// HostList accepts either a comma-separated "host:port" string or a YAML
// sequence. Entries are trimmed, empty ones dropped, order kept.
type HostList []string

func (h *HostList) UnmarshalYAML(node *yaml.Node) error {
	var raw []string

	switch node.Kind {
	case yaml.ScalarNode:
		raw = strings.Split(node.Value, ",")
	case yaml.SequenceNode:
		if err := node.Decode(&raw); err != nil {
			return err
		}
	default:
		return fmt.Errorf("line %d: hosts must be a string or a list", node.Line)
	}

	list := make(HostList, 0, len(raw))
	for _, entry := range raw {
		if entry = strings.TrimSpace(entry); entry != "" {
			list = append(list, entry)
		}
	}
	*h = list
	return nil
}

func Parse(text string) (*Config, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyConfig
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(text), &cfg); err != nil {
		return nil, fmt.Errorf("parse patroni configuration: %w", err)
	}
	return &cfg, nil
}

// EtcdHosts returns the "host:port" members of the DCS, preferring etcd over
// etcd3 and hosts over the single host key.
func (c *Config) EtcdHosts() []string {
	for _, section := range []EtcdSection{c.Etcd, c.Etcd3} {
		if len(section.Hosts) > 0 {
			return section.Hosts
		}
		if host := strings.TrimSpace(section.Host); host != "" {
			return []string{host}
		}
	}
	return nil
}

func (c *Config) DataDir() string {
	return strings.TrimRight(strings.TrimSpace(c.PostgreSQL.DataDir), "/")
}

// PostgresLogDir resolves log_directory against the data directory the same
// way PostgreSQL does. The default is <data_dir>/log.
func (c *Config) PostgresLogDir() string {
	dataDir := c.DataDir()

	logDir, _ := c.PostgreSQL.Parameters["log_directory"].(string)
	logDir = strings.TrimSpace(logDir)
	switch {
	case logDir == "":
		return dataDir + "/log"
	case path.IsAbs(logDir):
		return path.Clean(logDir)
	default:
		return path.Join(dataDir, logDir)
	}
}

// LogDir is where Patroni writes its own log files.
func (c *Config) LogDir() string {
	if dir := strings.TrimSpace(c.Log.Dir); dir != "" {
		return strings.TrimRight(dir, "/")
	}
	return DefaultLogDir
}

// Hostname strips the port from a "host:port" entry by splitting on the last
// colon. Bracketed IPv6 literals lose their brackets.
func Hostname(entry string) string {
	entry = strings.TrimSpace(entry)
	if i := strings.LastIndex(entry, ":"); i >= 0 {
		if strings.HasPrefix(entry, "[") {
			if j := strings.Index(entry, "]"); j > 0 {
				return entry[1:j]
			}
		}
		entry = entry[:i]
	}
	return entry
}
