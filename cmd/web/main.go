// Command web runs the sales dashboard API server.
package main

import (
	"flag"
	"fmt"
	"os"

	"salescli/internal/app"
	"salescli/internal/config"
	"salescli/pkg/contracts"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to optional YAML config overlay")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionString())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
