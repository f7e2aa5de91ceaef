package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"pgha-inspect/internal/model"
	"pgha-inspect/internal/pkg/logger"
)

const patroniUnit = `# /etc/systemd/system/patroni.service
[Service]
User=postgres
ExecStart=/usr/local/bin/patroni /etc/patroni/patroni.yml
Restart=on-failure
`

func newTestInspector() *Inspector {
	return NewInspector(testCluster(), logger.NewNop())
}

func healthyNode(host string) *fakeSession {
	s := newFakeSession(host)
	s.on(catPatroni, patroniConfig("10.0.0.2:2379,10.0.0.3:2379")+"  parameters:\n    log_directory: pg_log\n", "")
	s.on("sudo -u postgres cat /etc/haproxy/haproxy.cfg", "frontend pg\n  bind *:5000\n", "")
	s.on("sudo cat /etc/etcd/etcd.yml", "name: etcd-1\n", "")
	s.on("sudo -u postgres cat /pgdata/16/data/postgresql.conf", "max_connections = 100\n", "")

	s.on("sudo su postgres -c 'ls -t /var/log/patroni/patroni*.log'", "/var/log/patroni/patroni.log\n", "")
	s.on("sudo su postgres -c 'tail -n 20 /var/log/patroni/patroni.log'", "INFO: no action. I am the leader\n", "")
	s.on("sudo su postgres -c 'tail -n 100000 /var/log/patroni/patroni.log'", "ERROR: old\nINFO: ok\nERROR: <lost lock> & demoting\nINFO: ok\n", "")

	s.on("sudo su postgres -c 'ls -t /var/log/etcd/etcd*.log'", "", "ls: cannot access '/var/log/etcd/etcd*.log': No such file or directory\n")

	s.on("sudo su postgres -c 'ls -t /pgdata/16/data/pg_log/postgresql*.log'",
		"/pgdata/16/data/pg_log/postgresql-Tue.log\n/pgdata/16/data/pg_log/postgresql-Mon.log\n", "")
	s.on("sudo su postgres -c 'tail -n 20 /pgdata/16/data/pg_log/postgresql-Tue.log'", "LOG: checkpoint complete\n", "")
	s.on("sudo su postgres -c 'tail -n 100000 /pgdata/16/data/pg_log/postgresql-Tue.log'", "LOG: checkpoint complete\n", "")

	s.on("sudo systemctl status haproxy", "● haproxy.service - HAProxy\n   Active: active (running)\n", "")
	s.on("sudo systemctl status patroni", "● patroni.service\n   Active: active (running)\n", "")
	s.on("sudo systemctl status etcd", "● etcd.service\n   Active: active (running)\n", "")
	s.on("sudo systemctl status era_postgres", "", "Unit era_postgres.service could not be found.\n")
	s.on("sudo systemctl cat patroni", patroniUnit, "")

	s.on("which patronictl", "/usr/local/bin/patronictl\n", "")
	s.on("sudo /usr/local/bin/patronictl -c /etc/patroni/patroni.yml list", "| Member | Host | Role |\n", "")
	s.on("df -h", "/dev/sda1  50G  10G  40G  20% /\n", "")
	return s
}

func TestInspectHealthyNode(t *testing.T) {
	s := healthyNode("10.0.0.2")

	r := newTestInspector().Inspect("10.0.0.2", s)

	assert.Equal(t, "10.0.0.2", r.Host)
	assert.Equal(t, "frontend pg\n  bind *:5000\n", r.Value(model.FieldHAProxyConf))
	assert.Equal(t, "max_connections = 100\n", r.Value(model.FieldPostgresConf))
	assert.Equal(t, "INFO: no action. I am the leader\n", r.Value(model.FieldPatroniLogContent))
	assert.Equal(t, "ERROR: <lost lock> & demoting\n", r.Value(model.FieldPatroniLastError))
	assert.Equal(t, "LOG: checkpoint complete\n", r.Value(model.FieldPostgresLogContent))
	assert.Equal(t, "No recent errors found.", r.Value(model.FieldPostgresLastError))
	assert.Equal(t, "| Member | Host | Role |\n", r.Value(model.FieldPatronictlStatus))
	assert.Equal(t, "/dev/sda1  50G  10G  40G  20% /\n", r.Value(model.FieldDiskUsage))

	assert.Equal(t, "No log files found", r.Value(model.FieldEtcdLogContent))
	assert.Equal(t, "No log files found", r.Value(model.FieldEtcdLastError))
	assert.Contains(t, r.Error(model.FieldEtcdLogContent), "No such file or directory")

	assert.Equal(t, "", r.Value(model.FieldPostgresStatus))
	assert.Equal(t, "Unit era_postgres.service could not be found.\n", r.Error(model.FieldPostgresStatus))

	assert.Equal(t,
		"[haproxy] unit definition unavailable\n"+
			"[patroni] User=postgres ExecStart=/usr/local/bin/patroni /etc/patroni/patroni.yml Restart=on-failure\n"+
			"[etcd] unit definition unavailable\n"+
			"[era_postgres] unit definition unavailable",
		r.Value(model.FieldServiceUnits))
}

func TestInspectCommandOrder(t *testing.T) {
	s := healthyNode("10.0.0.2")

	newTestInspector().Inspect("10.0.0.2", s)

	require.NotEmpty(t, s.commands)
	assert.Equal(t, catPatroni, s.commands[0])
	assert.Equal(t, "ps aux --sort=-%mem | head -n 11", s.commands[len(s.commands)-1])
	assert.Contains(t, s.commands, "ps -ef | grep postgres")
	assert.Contains(t, s.commands, "sudo last reboot")
	assert.Contains(t, s.commands, "sudo systemctl status era_postgres")

	// each log directory is listed once
	lists := 0
	for _, cmd := range s.commands {
		if cmd == "sudo su postgres -c 'ls -t /pgdata/16/data/pg_log/postgresql*.log'" {
			lists++
		}
	}
	assert.Equal(t, 1, lists)
}

func TestInspectPatronictlFallback(t *testing.T) {
	s := newFakeSession("10.0.0.2")

	newTestInspector().Inspect("10.0.0.2", s)

	assert.Contains(t, s.commands, "sudo patronictl -c /etc/patroni/patroni.yml list")
}

func TestInspectEveryFieldPresentWhenCommandsFail(t *testing.T) {
	tests := []struct {
		name     string
		fallback reply
	}{
		{"stderr only", reply{stderr: "sudo: a password is required\n"}},
		{"transport failure", reply{err: errors.New("ssh: session closed")}},
		{"empty output", reply{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFakeSession("10.0.0.9")
			s.fallback = tt.fallback

			r := newTestInspector().Inspect("10.0.0.9", s)

			require.Len(t, r.Values, len(model.Fields))
			for _, f := range model.Fields {
				_, ok := r.Values[f.Key]
				assert.True(t, ok, "missing %s", f.Key)
			}
		})
	}
}

func TestInspectDegradesWithoutPatroniConfig(t *testing.T) {
	s := newFakeSession("10.0.0.9")
	s.fallback = reply{stderr: "cat: /etc/patroni/patroni.yml: No such file or directory\n"}

	r := newTestInspector().Inspect("10.0.0.9", s)

	assert.Equal(t, "", r.Value(model.FieldPatroniConf))
	assert.Equal(t, "cat: /etc/patroni/patroni.yml: No such file or directory\n", r.Error(model.FieldPatroniConf))
	assert.Equal(t, "No log files found", r.Value(model.FieldPatroniLogContent))
	assert.Equal(t, "No log files found", r.Value(model.FieldPostgresLastError))
	assert.Contains(t, s.commands, "sudo su postgres -c 'ls -t /var/log/patroni/patroni*.log'")
	assert.Contains(t, s.commands, "df -h")
}

func TestInspectTransportFailureKeepsDefaults(t *testing.T) {
	s := newFakeSession("10.0.0.9")
	s.fallback = reply{err: errors.New("ssh: session closed")}

	r := newTestInspector().Inspect("10.0.0.9", s)

	assert.Equal(t, "", r.Value(model.FieldDiskUsage))
	assert.Equal(t, "ssh: session closed", r.Error(model.FieldDiskUsage))
	assert.Equal(t, "ssh: session closed", r.Value(model.FieldEtcdLogContent))
}

func TestInspectLogsProgress(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	inspector := NewInspector(testCluster(), &logger.Logger{Logger: zap.New(core)})

	s := newFakeSession("10.0.0.2")
	s.on("df -h", "", "df: /mnt/nfs: Stale file handle\n")
	inspector.Inspect("10.0.0.2", s)

	finished := logs.FilterMessage("Node inspection finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, "10.0.0.2", finished[0].ContextMap()["host"])
	assert.NotZero(t, logs.FilterMessage("Executing command").Len())
}
