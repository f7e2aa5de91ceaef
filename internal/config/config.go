package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	SSH     SSHConfig
	Cluster ClusterConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Port           int
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
}

type SSHConfig struct {
	Port           int
	ConnectTimeout int
	KnownHostsFile string
}

// ClusterConfig describes where things live on a Patroni/etcd/HAProxy node.
type ClusterConfig struct {
	PatroniConfigPath string
	HAProxyConfigPath string
	EtcdConfigPath    string
	PatroniLogDir     string
	EtcdLogDir        string
	Services          ServiceNames
	ShortTailLines    int
	LongTailLines     int
}

type ServiceNames struct {
	HAProxy  string
	Patroni  string
	Etcd     string
	Postgres string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 30),
			WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 300),
			AllowedOrigins: getEnvAsSlice("SERVER_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			RateLimit:      getEnvAsFloat("SERVER_RATE_LIMIT", 1),
			RateBurst:      getEnvAsInt("SERVER_RATE_BURST", 3),
		},
		SSH: SSHConfig{
			Port:           getEnvAsInt("SSH_PORT", 22),
			ConnectTimeout: getEnvAsInt("SSH_CONNECT_TIMEOUT", 30),
			KnownHostsFile: getEnvAsString("SSH_KNOWN_HOSTS", ""),
		},
		Cluster: ClusterConfig{
			PatroniConfigPath: getEnvAsString("PATRONI_CONFIG_PATH", "/etc/patroni/patroni.yml"),
			HAProxyConfigPath: getEnvAsString("HAPROXY_CONFIG_PATH", "/etc/haproxy/haproxy.cfg"),
			EtcdConfigPath:    getEnvAsString("ETCD_CONFIG_PATH", "/etc/etcd/etcd.yml"),
			PatroniLogDir:     getEnvAsString("PATRONI_LOG_DIR", "/var/log/patroni"),
			EtcdLogDir:        getEnvAsString("ETCD_LOG_DIR", "/var/log/etcd"),
			Services: ServiceNames{
				HAProxy:  getEnvAsString("HAPROXY_SERVICE", "haproxy"),
				Patroni:  getEnvAsString("PATRONI_SERVICE", "patroni"),
				Etcd:     getEnvAsString("ETCD_SERVICE", "etcd"),
				Postgres: getEnvAsString("POSTGRES_SERVICE", "era_postgres"),
			},
			ShortTailLines: getEnvAsInt("LOG_TAIL_LINES", 20),
			LongTailLines:  getEnvAsInt("LOG_ERROR_SCAN_LINES", 100000),
		},
		Logging: LoggingConfig{
			Level:  getEnvAsString("LOG_LEVEL", "info"),
			Format: getEnvAsString("LOG_FORMAT", "console"),
		},
	}
}

func (c SSHConfig) Timeout() time.Duration {
	return time.Duration(c.ConnectTimeout) * time.Second
}

// ConfigFiles lists the remote configuration files worth archiving per node.
func (c ClusterConfig) ConfigFiles() []string {
	return []string{c.PatroniConfigPath, c.HAProxyConfigPath, c.EtcdConfigPath}
}

func getEnvAsString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
