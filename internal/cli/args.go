package cli

import (
	"os"
	"strings"
)

const passwordFlag = "--password"

// normalizeArgs rewrites a --password given without a value into
// --password=prompt. pflag would otherwise consume the next flag as the
// password, while NoOptDefVal would stop it from taking a separate value.
// A value that starts with "-" must be passed as --password=<value>.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if arg == passwordFlag && (i+1 == len(args) || strings.HasPrefix(args[i+1], "-")) {
			arg = passwordFlag + "=" + promptPassword
		}
		out = append(out, arg)
	}
	return out
}

func osArgs() []string {
	return normalizeArgs(os.Args[1:])
}
