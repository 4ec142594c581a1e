// Command researchflow runs one service of the multi-agent research system:
// the coordinator or any of the five pipeline agents.
//
// Usage:
//
//	researchflow serve --service coordinator         # workflow engine
//	researchflow serve --service topic-refiner       # a pipeline agent
//	researchflow serve --config config.yaml
//	researchflow version
package main

import (
	"fmt"
	"os"
)

// Version information, injected at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		runServe(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("researchflow %s (built %s, commit %s)\n", Version, BuildTime, GitCommit)
}

func printUsage() {
	fmt.Print(`researchflow - multi-agent research system

Usage:
  researchflow serve [flags]    Start a service
  researchflow version          Show version information
  researchflow help             Show this help

Serve flags:
  --service string   Service to run: coordinator, topic-refiner,
                     question-architect, search-strategist, data-analyst,
                     report-writer (default "coordinator")
  --config string    Path to YAML config file
`)
}
