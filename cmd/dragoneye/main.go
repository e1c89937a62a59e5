package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tauraamui/dragoneye/pkg/config"
	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/dragoneye/pkg/eye"
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/video/videobackend"
)

const usage = "Usage: dragoneye [run] | setup | remove-setup"

func setup() (string, error) {
	log.Info("Setting up dragoneye config...")
	if err := config.DefaultCreator().Create(); err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}
	return "Setup successful...", nil
}

func removeSetup() (string, error) {
	log.Info("Removing dragoneye config...")
	if err := config.DefaultDestroyer().Destroy(); err != nil {
		return "", err
	}
	return "Removing setup successful...", nil
}

func run() (string, error) {
	values, err := config.DefaultResolver().Resolve()
	if err != nil {
		return "", err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stats, err := eye.Run(ctx, values, videobackend.Resolve(os.Getenv("DRAGON_EYE_VIDEO_BACKEND")))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Displayed %d frames, stopped: %s", stats.Displayed, stats.Reason), nil
}

func manage() (string, error) {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "setup":
			return setup()
		case "remove-setup":
			return removeSetup()
		case "run":
			return run()
		default:
			return usage, nil
		}
	}
	return run()
}

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "unable to load .env file: %s\n", err.Error())
	}
	log.SetLevelFromEnv()
}

func main() {
	status, err := manage()
	if err != nil {
		log.Fatal(err.Error())
	}
	log.Info(status)
}
