package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pgha-inspect/internal/config"
)

type reply struct {
	stdout string
	stderr string
	err    error
}

// fakeSession answers commands from a table and remembers what it ran.
type fakeSession struct {
	mu       sync.Mutex
	host     string
	replies  map[string]reply
	fallback reply
	files    map[string]string
	commands []string
	closed   bool
	events   *[]string
}

func newFakeSession(host string) *fakeSession {
	return &fakeSession{
		host:    host,
		replies: make(map[string]reply),
		files:   make(map[string]string),
	}
}

func (f *fakeSession) on(cmd, stdout, stderr string) *fakeSession {
	f.replies[cmd] = reply{stdout: stdout, stderr: stderr}
	return f
}

func (f *fakeSession) Run(cmd string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.commands = append(f.commands, cmd)
	if r, ok := f.replies[cmd]; ok {
		return r.stdout, r.stderr, r.err
	}
	return f.fallback.stdout, f.fallback.stderr, f.fallback.err
}

func (f *fakeSession) FetchFile(remotePath, localPath string) error {
	content, ok := f.files[remotePath]
	if !ok {
		return fmt.Errorf("open remote file %s: file does not exist", remotePath)
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0o750); err != nil {
		return err
	}
	return os.WriteFile(localPath, []byte(content), 0o600)
}

func (f *fakeSession) Close() error {
	f.closed = true
	if f.events != nil {
		*f.events = append(*f.events, "close "+f.host)
	}
	return nil
}

// fakeConnector hands out prepared sessions by host.
type fakeConnector struct {
	sessions map[string]*fakeSession
	failures map[string]error
	events   []string
}

func newFakeConnector() *fakeConnector {
	return &fakeConnector{
		sessions: make(map[string]*fakeSession),
		failures: make(map[string]error),
	}
}

func (c *fakeConnector) add(s *fakeSession) *fakeSession {
	s.events = &c.events
	c.sessions[s.host] = s
	return s
}

func (c *fakeConnector) Connect(host string) (RemoteSession, error) {
	c.events = append(c.events, "open "+host)
	if err, ok := c.failures[host]; ok {
		return nil, err
	}
	if s, ok := c.sessions[host]; ok {
		return s, nil
	}
	return c.add(newFakeSession(host)), nil
}

func testCluster() config.ClusterConfig {
	return config.ClusterConfig{
		PatroniConfigPath: "/etc/patroni/patroni.yml",
		HAProxyConfigPath: "/etc/haproxy/haproxy.cfg",
		EtcdConfigPath:    "/etc/etcd/etcd.yml",
		PatroniLogDir:     "/var/log/patroni",
		EtcdLogDir:        "/var/log/etcd",
		Services: config.ServiceNames{
			HAProxy:  "haproxy",
			Patroni:  "patroni",
			Etcd:     "etcd",
			Postgres: "era_postgres",
		},
		ShortTailLines: 20,
		LongTailLines:  100000,
	}
}

func patroniConfig(hosts string) string {
	return "scope: pg-ha\n" +
		"etcd:\n" +
		"  hosts: " + hosts + "\n" +
		"postgresql:\n" +
		"  data_dir: /pgdata/16/data\n"
}

const catPatroni = "sudo -u postgres cat /etc/patroni/patroni.yml"
