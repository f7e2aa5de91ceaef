package model

// Record field keys. The order of Fields is the order of the report.
const (
	FieldPatroniConf        = "patroni_conf"
	FieldHAProxyConf        = "haproxy_conf"
	FieldEtcdConf           = "etcd_conf"
	FieldPostgresConf       = "postgres_conf"
	FieldHAProxyStatus      = "haproxy_status"
	FieldPatroniStatus      = "patroni_status"
	FieldEtcdStatus         = "etcd_status"
	FieldPostgresStatus     = "postgres_status"
	FieldPostgresProcesses  = "postgres_process_status"
	FieldPatronictlStatus   = "patronictl_status"
	FieldPatroniLogContent  = "patroni_log_content"
	FieldEtcdLogContent     = "etcd_log_content"
	FieldPostgresLogContent = "postgres_log_content"
	FieldPatroniLastError   = "patroni_last_error"
	FieldEtcdLastError      = "etcd_last_error"
	FieldPostgresLastError  = "postgres_last_error"
	FieldServiceUnits       = "service_units"
	FieldLastReboot         = "last_reboot_status"
	FieldDiskUsage          = "disk_usage"
	FieldTopMemoryProcesses = "top_memory_processes"
)

const (
	errorKeySuffix           = "_err"
	defaultPatroniLastError  = "No Patroni error found"
	defaultEtcdLastError     = "No etcd error found"
	defaultPostgresLastError = "No PostgreSQL error found"
)

type Field struct {
	Key   string
	Label string
	// Default is the value shown when nothing was captured.
	Default string
}

var Fields = []Field{
	{Key: FieldPatroniConf, Label: "Patroni Configuration"},
	{Key: FieldHAProxyConf, Label: "HAProxy Configuration"},
	{Key: FieldEtcdConf, Label: "etcd Configuration"},
	{Key: FieldPostgresConf, Label: "PostgreSQL Configuration"},
	{Key: FieldHAProxyStatus, Label: "HAProxy Service Status"},
	{Key: FieldPatroniStatus, Label: "Patroni Service Status"},
	{Key: FieldEtcdStatus, Label: "etcd Service Status"},
	{Key: FieldPostgresStatus, Label: "PostgreSQL Service Status"},
	{Key: FieldPostgresProcesses, Label: "PostgreSQL Process Status"},
	{Key: FieldPatronictlStatus, Label: "Patroni Cluster Status"},
	{Key: FieldPatroniLogContent, Label: "Patroni Log Content"},
	{Key: FieldEtcdLogContent, Label: "etcd Log Content"},
	{Key: FieldPostgresLogContent, Label: "PostgreSQL Log Content"},
	{Key: FieldPatroniLastError, Label: "Patroni Last Error", Default: defaultPatroniLastError},
	{Key: FieldEtcdLastError, Label: "etcd Last Error", Default: defaultEtcdLastError},
	{Key: FieldPostgresLastError, Label: "PostgreSQL Last Error", Default: defaultPostgresLastError},
	{Key: FieldServiceUnits, Label: "Service Unit Definitions"},
	{Key: FieldLastReboot, Label: "Node Last Reboot"},
	{Key: FieldDiskUsage, Label: "Total Disk Usage"},
	{Key: FieldTopMemoryProcesses, Label: "Top Consumer Process"},
}

// NodeRecord holds everything captured from one node. Values has an entry for
// every key in Fields from construction on; Errors maps "<field>_err" to the
// stderr text of the command behind that field.
type NodeRecord struct {
	Host   string            `json:"host"`
	Values map[string]string `json:"values"`
	Errors map[string]string `json:"errors"`
}

type Section struct {
	Label string
	Value string
}

func NewNodeRecord(host string) *NodeRecord {
	r := &NodeRecord{
		Host:   host,
		Values: make(map[string]string, len(Fields)),
		Errors: make(map[string]string),
	}
	for _, f := range Fields {
		r.Values[f.Key] = f.Default
	}
	return r
}

func (r *NodeRecord) Value(key string) string {
	return r.Values[key]
}

func (r *NodeRecord) Set(key, value string) {
	r.Values[key] = value
}

func (r *NodeRecord) SetError(key, stderr string) {
	r.Errors[ErrorKey(key)] = stderr
}

func (r *NodeRecord) Error(key string) string {
	return r.Errors[ErrorKey(key)]
}

// FailedFields counts fields whose command produced error output.
func (r *NodeRecord) FailedFields() int {
	n := 0
	for _, v := range r.Errors {
		if v != "" {
			n++
		}
	}
	return n
}

// Sections pairs every field label with its value, in report order.
func (r *NodeRecord) Sections() []Section {
	sections := make([]Section, 0, len(Fields))
	for _, f := range Fields {
		sections = append(sections, Section{Label: f.Label, Value: r.Values[f.Key]})
	}
	return sections
}

func ErrorKey(field string) string {
	return field + errorKeySuffix
}
