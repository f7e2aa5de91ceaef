package systemd

import (
	"fmt"
	"strings"

	"github.com/coreos/go-systemd/v22/unit"
)

// summaryKeys are the [Service] options worth showing in a report.
var summaryKeys = []string{"User", "ExecStart", "Restart", "EnvironmentFile"}

// SummarizeUnit condenses `systemctl cat` output into a single line. Drop-ins
// are concatenated by systemctl, so the last assignment of a key wins.
func SummarizeUnit(service, text string) string {
	if strings.TrimSpace(text) == "" {
		return fmt.Sprintf("[%s] unit definition unavailable", service)
	}

	options, err := unit.DeserializeOptions(strings.NewReader(text))
	if err != nil {
		return fmt.Sprintf("[%s] unit definition unparsable: %v", service, err)
	}

	values := make(map[string]string)
	for _, opt := range options {
		if opt.Section != "Service" {
			continue
		}
		values[opt.Name] = opt.Value
	}

	var sb strings.Builder
	sb.WriteString("[" + service + "]")
	for _, key := range summaryKeys {
		if v := strings.TrimSpace(values[key]); v != "" {
			sb.WriteString(fmt.Sprintf(" %s=%s", key, v))
		}
	}
	return sb.String()
}
