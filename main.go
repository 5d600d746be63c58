package main

import (
	"context"

	"github.com/mrlokans/mapharvest/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cli.Execute(context.Background(), Version+" ("+Commit+")")
}
