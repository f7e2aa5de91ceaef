package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"pgha-inspect/internal/config"
	"pgha-inspect/internal/metrics"
	"pgha-inspect/internal/model"
	"pgha-inspect/internal/pkg/logger"
	"pgha-inspect/internal/pkg/patroni"
	"pgha-inspect/internal/pkg/systemd"
	"pgha-inspect/pkg/utils"
)

const defaultPatronictl = "patronictl"

type step struct {
	field   string
	command string
}

// logSource is one log family whose newest file feeds a content field and a
// last-error field.
type logSource struct {
	name         string
	dir          string
	glob         string
	contentField string
	errorField   string
}

// nodePaths are the directories read out of the node's patroni.yml.
type nodePaths struct {
	dataDir        string
	postgresLogDir string
	patroniLogDir  string
}

type Inspector struct {
	cluster config.ClusterConfig
	logger  *logger.Logger
}

func NewInspector(cluster config.ClusterConfig, logger *logger.Logger) *Inspector {
	return &Inspector{
		cluster: cluster,
		logger:  logger,
	}
}

// Inspect runs the diagnostic commands against one node. Every command is
// independent: failures are folded into the record and never stop the run.
func (i *Inspector) Inspect(host string, s Session) *model.NodeRecord {
	start := time.Now()
	in := &inspection{
		host:    host,
		session: s,
		record:  model.NewNodeRecord(host),
		logger:  i.logger,
	}

	patroniConf := in.capture(model.FieldPatroniConf, "sudo -u postgres cat "+i.cluster.PatroniConfigPath)
	paths := i.derivePaths(host, patroniConf)

	for _, st := range i.configSteps(paths) {
		in.capture(st.field, st.command)
	}

	for _, src := range i.logSources(paths) {
		in.collectLog(src, i.cluster.ShortTailLines, i.cluster.LongTailLines)
	}

	for _, st := range i.statusSteps() {
		in.capture(st.field, st.command)
	}

	in.record.Set(model.FieldServiceUnits, in.unitSummaries(i.serviceNames()))

	patronictl := in.resolvePatronictl()
	for _, st := range i.systemSteps(patronictl) {
		in.capture(st.field, st.command)
	}

	elapsed := time.Since(start)
	degraded := in.record.FailedFields()
	metrics.NodeInspectionDuration.Observe(elapsed.Seconds())
	if degraded > 0 {
		metrics.NodeInspections.WithLabelValues(metrics.ResultDegraded).Inc()
	} else {
		metrics.NodeInspections.WithLabelValues(metrics.ResultSuccess).Inc()
	}
	i.logger.NodeInspected(host, degraded, elapsed)

	return in.record
}

func (i *Inspector) derivePaths(host, patroniConf string) nodePaths {
	paths := nodePaths{patroniLogDir: i.cluster.PatroniLogDir}

	cfg, err := patroni.Parse(patroniConf)
	if err != nil {
		i.logger.Warn("Patroni configuration unusable, derived paths left empty",
			zap.String("host", host),
			zap.Error(err),
		)
		return paths
	}

	paths.dataDir = utils.SanitizePath(cfg.DataDir())
	paths.postgresLogDir = utils.SanitizePath(cfg.PostgresLogDir())
	if strings.TrimSpace(cfg.Log.Dir) != "" {
		paths.patroniLogDir = utils.SanitizePath(cfg.LogDir())
	}
	return paths
}

func (i *Inspector) configSteps(paths nodePaths) []step {
	return []step{
		{model.FieldHAProxyConf, "sudo -u postgres cat " + i.cluster.HAProxyConfigPath},
		{model.FieldEtcdConf, "sudo cat " + i.cluster.EtcdConfigPath},
		{model.FieldPostgresConf, "sudo -u postgres cat " + paths.dataDir + "/postgresql.conf"},
	}
}

func (i *Inspector) logSources(paths nodePaths) []logSource {
	return []logSource{
		{"patroni", paths.patroniLogDir, "patroni*.log", model.FieldPatroniLogContent, model.FieldPatroniLastError},
		{"etcd", i.cluster.EtcdLogDir, "etcd*.log", model.FieldEtcdLogContent, model.FieldEtcdLastError},
		{"postgresql", paths.postgresLogDir, "postgresql*.log", model.FieldPostgresLogContent, model.FieldPostgresLastError},
	}
}

func (i *Inspector) statusSteps() []step {
	svc := i.cluster.Services
	return []step{
		{model.FieldHAProxyStatus, "sudo systemctl status " + svc.HAProxy},
		{model.FieldPatroniStatus, "sudo systemctl status " + svc.Patroni},
		{model.FieldEtcdStatus, "sudo systemctl status " + svc.Etcd},
		{model.FieldPostgresStatus, "sudo systemctl status " + svc.Postgres},
	}
}

func (i *Inspector) systemSteps(patronictl string) []step {
	return []step{
		{model.FieldPostgresProcesses, "ps -ef | grep postgres"},
		{model.FieldLastReboot, "sudo last reboot"},
		{model.FieldPatronictlStatus, fmt.Sprintf("sudo %s -c %s list", patronictl, i.cluster.PatroniConfigPath)},
		{model.FieldDiskUsage, "df -h"},
		{model.FieldTopMemoryProcesses, "ps aux --sort=-%mem | head -n 11"},
	}
}

func (i *Inspector) serviceNames() []string {
	svc := i.cluster.Services
	return []string{svc.HAProxy, svc.Patroni, svc.Etcd, svc.Postgres}
}

// inspection is the state of a single Inspect call.
type inspection struct {
	host    string
	session Session
	record  *model.NodeRecord
	logger  *logger.Logger
}

// run executes cmd and counts the outcome. stderr text alone does not make
// err non-nil.
func (in *inspection) run(field, cmd string) (string, string, error) {
	in.logger.InspectionStep(in.host, field, cmd)

	stdout, stderr, err := in.session.Run(cmd)
	switch {
	case err != nil:
		metrics.RemoteCommands.WithLabelValues(metrics.ResultError).Inc()
		in.logger.CommandFailed(in.host, field, err)
	case stderr != "":
		metrics.RemoteCommands.WithLabelValues(metrics.ResultDegraded).Inc()
	default:
		metrics.RemoteCommands.WithLabelValues(metrics.ResultSuccess).Inc()
	}
	return stdout, stderr, err
}

// capture stores stdout as the field value and stderr under the field's
// error key. A transport failure leaves the default value in place.
func (in *inspection) capture(field, cmd string) string {
	stdout, stderr, err := in.run(field, cmd)
	if err != nil {
		in.record.SetError(field, err.Error())
		return ""
	}
	in.record.Set(field, stdout)
	in.record.SetError(field, stderr)
	return stdout
}

// latestLog finds the newest file matching the source's glob.
func (in *inspection) latestLog(src logSource) (string, model.LogResult) {
	cmd := fmt.Sprintf("sudo su postgres -c 'ls -t %s/%s'", src.dir, src.glob)
	stdout, stderr, err := in.run(src.contentField, cmd)
	if err != nil {
		return "", model.FailedLog(err.Error())
	}

	files := strings.Fields(stdout)
	if len(files) == 0 {
		return "", model.MissingLog(stderr)
	}
	return utils.SanitizePath(files[0]), model.FoundLog("")
}

func (in *inspection) tail(field, file string, lines int) model.LogResult {
	cmd := fmt.Sprintf("sudo su postgres -c 'tail -n %d %s'", lines, file)
	stdout, stderr, err := in.run(field, cmd)
	if err != nil {
		return model.FailedLog(err.Error())
	}
	if stderr != "" {
		in.record.SetError(field, stderr)
	}
	return model.FoundLog(stdout)
}

func (in *inspection) collectLog(src logSource, shortLines, longLines int) {
	file, located := in.latestLog(src)
	if !located.Found() {
		in.logger.Debug("No log file located",
			zap.String("host", in.host),
			zap.String("source", src.name),
			zap.String("dir", src.dir),
			zap.String("detail", located.Detail),
		)
		in.record.Set(src.contentField, located.String())
		in.record.Set(src.errorField, located.String())
		if located.Detail != "" {
			in.record.SetError(src.contentField, located.Detail)
		}
		return
	}

	in.record.Set(src.contentField, in.tail(src.contentField, file, shortLines).String())

	long := in.tail(src.errorField, file, longLines)
	if long.Found() {
		in.record.Set(src.errorField, ExtractLastError(long.Content))
	} else {
		in.record.Set(src.errorField, long.String())
	}
}

// unitSummaries condenses `systemctl cat` for each service, one line each.
func (in *inspection) unitSummaries(services []string) string {
	lines := make([]string, 0, len(services))
	var stderrs []string
	for _, svc := range services {
		stdout, stderr, err := in.run(model.FieldServiceUnits, "sudo systemctl cat "+svc)
		if err != nil {
			stdout = ""
		} else if stderr != "" {
			stderrs = append(stderrs, stderr)
		}
		lines = append(lines, systemd.SummarizeUnit(svc, stdout))
	}
	if len(stderrs) > 0 {
		in.record.SetError(model.FieldServiceUnits, strings.Join(stderrs, ""))
	}
	return strings.Join(lines, "\n")
}

func (in *inspection) resolvePatronictl() string {
	stdout, _, err := in.run(model.FieldPatronictlStatus, "which patronictl")
	if err != nil {
		return defaultPatronictl
	}
	if path := utils.SanitizePath(stdout); path != "" {
		return path
	}
	return defaultPatronictl
}
