package utils

import (
	"net"
	"strconv"
	"strings"
)

func ValidateIP(ip string) error {
	if net.ParseIP(ip) == nil {
		return NewValidationError("IP address", ip)
	}
	return nil
}

func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return NewValidationError("port (must be within 1-65535)", port)
	}
	return nil
}

// ValidateHost accepts an IP address or an RFC 1123 hostname.
func ValidateHost(host string) error {
	if host == "" {
		return NewValidationError("host", "<empty>")
	}

	if ValidateIP(host) == nil {
		return nil
	}

	if len(host) > 253 {
		return NewValidationError("host (longer than 253 characters)", host)
	}

	for _, label := range strings.Split(strings.TrimSuffix(host, "."), ".") {
		if label == "" || len(label) > 63 {
			return NewValidationError("host", host)
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return NewValidationError("host", host)
		}
		for _, char := range label {
			if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-') {
				return NewValidationError("host", host)
			}
		}
	}

	return nil
}

// SanitizePath strips shell metacharacters from a remote path before it is
// interpolated into a command. Glob characters are kept.
func SanitizePath(input string) string {
	dangerous := []string{";", "&", "|", "`", "$", "(", ")", "<", ">", "\"", "'", "\n"}
	result := input

	for _, char := range dangerous {
		result = strings.ReplaceAll(result, char, "")
	}

	return strings.TrimSpace(result)
}

func ParsePort(value string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, NewValidationError("port", value)
	}

	if err := ValidatePort(port); err != nil {
		return 0, err
	}

	return port, nil
}
