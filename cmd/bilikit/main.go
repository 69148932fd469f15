package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/bilikit/bilikit/internal/config"
	"github.com/bilikit/bilikit/internal/database"
)

func main() {
	logger := slog.New(newColorHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.LogLevel,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := initializeServices(); err != nil {
		slog.Error("Failed to initialize services",
			"error", err.Error())
		os.Exit(1)
	}
	defer database.Close()

	c, cred := buildClient()

	var err error
	switch command := os.Args[1]; command {
	case "post":
		err = cmdPost(c, cred, os.Args[2:])
	case "info":
		err = cmdInfo(c, cred, os.Args[2:])
	case "feed":
		err = cmdFeed(c, cred, os.Args[2:])
	case "like":
		err = cmdLike(c, cred, os.Args[2:], true)
	case "unlike":
		err = cmdLike(c, cred, os.Args[2:], false)
	case "repost":
		err = cmdRepost(c, cred, os.Args[2:])
	case "delete":
		err = cmdDelete(c, cred, os.Args[2:])
	case "schedules":
		err = cmdSchedules(c, cred, os.Args[2:])
	case "history":
		err = cmdHistory(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		slog.Error("Command failed",
			"command", os.Args[1],
			"error", err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: bilikit <command> [flags]

commands:
  post       build and publish a feed post
  info       show a feed item
  feed       list the feed
  like       like a feed item
  unlike     remove a like
  repost     share a feed item
  delete     remove a feed item
  schedules  manage scheduled posts
  history    show posts sent from this machine`)
}
