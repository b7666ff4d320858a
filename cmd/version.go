package cmd

import "fmt"

// Version information (injected at build time via ldflags)
var (
	AppVersion = "development"
	GitCommit  = "unknown"
)

func runVersion() {
	fmt.Printf("threadstore %s (%s)\n", AppVersion, GitCommit)
}
