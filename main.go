package main

import (
	"flag"
	"fmt"
	"os"

	"grimm.is/fwlens/cmd"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "show":
		showFlags := flag.NewFlagSet("show", flag.ExitOnError)
		backend := showFlags.String("backend", "", "Limit output to one backend (ufw, iptables, firewalld)")
		showFlags.StringVar(backend, "b", "", "Backend (short)")
		format := showFlags.String("output", "json", "Output format: json or yaml")
		showFlags.StringVar(format, "o", "json", "Output format (short)")
		showFlags.Parse(os.Args[2:])
		err = cmd.RunShow(*backend, *format)

	case "diff":
		diffFlags := flag.NewFlagSet("diff", flag.ExitOnError)
		diffFlags.Parse(os.Args[2:])
		err = cmd.RunDiff()

	case "serve":
		serveFlags := flag.NewFlagSet("serve", flag.ExitOnError)
		configFile := serveFlags.String("config", "", "Configuration file")
		serveFlags.StringVar(configFile, "c", "", "Configuration file (short)")
		serveFlags.Parse(os.Args[2:])
		err = cmd.RunServe(*configFile)

	case "help", "-h", "--help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `fwlens - firewall rule normalization engine

Usage:
  fwlens show [-b backend] [-o json|yaml]   One-shot normalize and print
  fwlens diff                               Diff firewalld runtime vs permanent
  fwlens serve [-c config.hcl]              Run the poller and HTTP API
  fwlens help                               Show this help
`)
}
