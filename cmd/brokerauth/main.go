// Command brokerauth runs the token lifecycle once: it loads the persisted
// token state, refreshes or re-authorizes as needed (prompting for the
// consent redirect URL when the refresh token has expired), and leaves a
// fresh token record on disk for the API client to use.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-broker-client/auth"
	"github.com/jrsteele09/go-broker-client/internal/config"
	"github.com/jrsteele09/go-broker-client/internal/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run() error {
	configPath := flag.String("config", config.GetEnv("BROKER_CONFIG", "config/broker.yaml"), "path to the YAML configuration file")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	displayAppname("Broker Auth")

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := logging.NewConsole(os.Stderr, level)

	authorizer, err := auth.New(cfg.Auth, auth.WithLogger(logger))
	if err != nil {
		return err
	}

	accessToken, err := authorizer.AccessToken(context.Background())
	if err != nil {
		return err
	}

	logger.Info("access token ready", logging.F("token", mask(accessToken)), logging.F("path", cfg.Auth.Token.TokenPath))
	return nil
}

func mask(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
