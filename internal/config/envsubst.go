package config

import (
	"os"
	"regexp"
	"strings"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// substituteEnvVars expands ${VAR}, ${VAR:-default} and ${VAR:?message}.
// References that cannot be resolved are left in place and reported in
// missing, with the message appended for the :? form.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		expr := match[2 : len(match)-1]

		if name, def, ok := strings.Cut(expr, ":-"); ok {
			if v := os.Getenv(name); v != "" {
				return v
			}
			return def
		}
		if name, msg, ok := strings.Cut(expr, ":?"); ok {
			if v := os.Getenv(name); v != "" {
				return v
			}
			missing = append(missing, name+": "+msg)
			return match
		}
		if v, ok := os.LookupEnv(expr); ok {
			return v
		}
		missing = append(missing, expr)
		return match
	})
	return out, missing
}
