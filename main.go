package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/glarch/glarch/cmd"
	"github.com/glarch/glarch/internal/config"
	lab "github.com/glarch/glarch/internal/gitlab"
	"github.com/glarch/glarch/internal/logger"
)

// version gets set on releases during build by goreleaser.
var version = "master"

var log = logger.GetInstance()

func main() {
	cmd.Version = version
	if !skipInit() {
		initSession()
	}
	cmd.Execute()
}

// initSession reads the configuration and authenticates against GitLab.
// Both failures are fatal.
func initSession() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLogLevel(level)

	if err := lab.Init(cfg.Host, cfg.Token, cfg.Timeout, cfg.TLSSkipVerify); err != nil {
		log.Fatal(err)
	}
	// completion runs on every key press, it skips the round trip
	if completing() {
		return
	}
	user, err := lab.Authenticate()
	if err != nil {
		log.Fatal(err)
	}
	color.New(color.FgGreen, color.Bold).Fprintf(os.Stderr, "✓ Session: %s\n", user)
}

func skipInit() bool {
	if len(os.Args) <= 1 {
		return false
	}
	switch os.Args[1] {
	case "completion", "version", "help", "--version", "--help", "-h":
		return true
	default:
		return false
	}
}

func completing() bool {
	return len(os.Args) > 1 && os.Args[1] == "_carapace"
}
