// Package flagx lets several packages parse their own flags from os.Args
// without tripping over each other's definitions.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs keeps only the allowed flags (and their values) from args.
//
// Both "-f value" and "-f=value" forms are recognised. A flag directly
// followed by something that looks like another flag is kept without a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// stringFlag parses a single string flag known under several names.
func stringFlag(names ...string) string {
	var value string

	dashed := make([]string, 0, len(names))
	for _, n := range names {
		dashed = append(dashed, "-"+n)
	}

	fs := flag.NewFlagSet(names[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&value, n, "", "")
	}
	_ = fs.Parse(FilterArgs(os.Args[1:], dashed))

	return value
}

// JsonConfigFlags returns the JSON config path passed via -c or -config,
// or "" when none was given.
func JsonConfigFlags() string {
	return stringFlag("config", "c")
}

// EnvFileFlags returns the dotenv path passed via -env, or "" when none was
// given.
func EnvFileFlags() string {
	return stringFlag("env")
}
