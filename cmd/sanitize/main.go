// Command sanitize renders a local Markdown/HTML file the same way the server
// does, so authors can preview their long descriptions.
//
//	sanitize [-vars vars.yaml] [-check] [file]
//
// The variables file is a YAML list of name/value pairs. Without a file
// argument the body is read from stdin.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"htmlsanitize.dev/internal/sanitize"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sanitize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	varsPath := fs.String("vars", "", "YAML file with a list of {name, value} variables")
	check := fs.Bool("check", false, "audit the output against the policy and fail on violations")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(stderr, "usage: sanitize [-vars vars.yaml] [-check] [file]\n")
		return 2
	}

	var body []byte
	var err error
	if fs.NArg() == 1 {
		body, err = os.ReadFile(fs.Arg(0))
	} else {
		body, err = io.ReadAll(stdin)
	}
	if err != nil {
		fmt.Fprintf(stderr, "read body: %v\n", err)
		return 1
	}

	var vars []sanitize.Variable
	if *varsPath != "" {
		data, err := os.ReadFile(*varsPath)
		if err != nil {
			fmt.Fprintf(stderr, "read vars %s: %v\n", *varsPath, err)
			return 1
		}
		if err := yaml.Unmarshal(data, &vars); err != nil {
			fmt.Fprintf(stderr, "parse yaml: %v\n", err)
			return 1
		}
	}

	policy := sanitize.DefaultPolicy()
	out := sanitize.New(policy).Template(string(body), vars)

	if *check {
		violations, err := sanitize.Audit(policy, out)
		if err != nil {
			fmt.Fprintf(stderr, "audit: %v\n", err)
			return 1
		}
		if len(violations) > 0 {
			for _, v := range violations {
				fmt.Fprintf(stderr, "policy violation: %s\n", v)
			}
			return 1
		}
	}

	_, _ = io.WriteString(stdout, out)
	return 0
}
