// Command apicompat fails when a regenerated swagger.yaml would break
// clients written against the published one.
//
//	apicompat -base docs/swagger.yaml -revision /tmp/swagger.yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

const (
	exitOK       = 0
	exitBreaking = 1
	exitUsage    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("apicompat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	base := fs.String("base", "", "published swagger.yaml")
	revision := fs.String("revision", "", "candidate swagger.yaml")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *base == "" || *revision == "" {
		fmt.Fprintln(stderr, "apicompat: both -base and -revision are required")
		fs.Usage()
		return exitUsage
	}

	var specs [2]apiSpec
	for i, p := range []string{*base, *revision} {
		s, err := loadSpec(p)
		if err != nil {
			fmt.Fprintf(stderr, "apicompat: %s: %v\n", p, err)
			return exitBreaking
		}
		specs[i] = s
	}

	breaks := compare(specs[0], specs[1])
	if len(breaks) == 0 {
		fmt.Fprintln(stdout, "no breaking changes")
		return exitOK
	}
	fmt.Fprintf(stderr, "%d breaking change(s):\n", len(breaks))
	for _, b := range breaks {
		fmt.Fprintln(stderr, "  "+b)
	}
	return exitBreaking
}
