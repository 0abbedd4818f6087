// Package flagx lets several loaders share one command line: each loader
// filters the arguments down to the flags it owns before parsing them.
package flagx

import (
	"flag"
	"io"
	"slices"
	"strings"
)

// FilterArgs keeps the flags named in allowed, with their values, and drops
// everything else. Both "-f value" and "-f=value" forms are recognised; a
// following argument that starts with "-" is not taken as a value.
func FilterArgs(args []string, allowed []string) []string {
	kept := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, ok := strings.Cut(arg, "="); ok {
			if slices.Contains(allowed, name) {
				kept = append(kept, arg)
			}
			continue
		}

		if !slices.Contains(allowed, arg) {
			continue
		}
		kept = append(kept, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			kept = append(kept, args[i+1])
			i++
		}
	}

	return kept
}

// ConfigFile returns the path given with -c or -config, or "".
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}
