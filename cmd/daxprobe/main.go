package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pranshuparmar/daxprobe/internal/cli"
)

var version = ""
var commit = ""
var buildDate = ""

// To embed version, commit, and build date, use:
// go build -ldflags "-X main.version=v0.1.0 -X main.commit=$(git rev-parse --short HEAD) -X 'main.buildDate=$(date +%Y-%m-%d)'" -o daxprobe ./cmd/daxprobe
func versionString() string {
	if version == "" {
		return "dev"
	}
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand(versionString())
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
