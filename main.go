// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CrawX/go-emailguard/config"
	"github.com/CrawX/go-emailguard/log"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

type options struct {
	scope      string
	accounts   string
	dryRun     bool
	maxDomains int
}

type command func(ctx context.Context, conf *config.Config, opts *options, args []string) error

var commands = map[string]command{
	"run":     runBatch,
	"results": fetchResults,
	"poll":    pollResults,
	"reset":   resetScope,
	"status":  showStatus,
	"setkey":  setKey,
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags]

Commands:
  run      send probes for the next batch of unprocessed domains
  results  fetch the current state of all queued tests once and write reports
  poll     fetch results until every test is done or Ctrl+C, then write reports
  reset    delete the batch state and test queue of a scope
  status   show progress of a scope
  setkey   store the API key in the system keyring

Run '%s <command> --help' for the flags of a command.
`, os.Args[0], os.Args[0])
}

func main() {
	log.InitLogging("info")
	logger := log.Logger(log.LOG_MAIN)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	name := os.Args[1]
	cmd, ok := commands[name]
	if !ok {
		usage()
		os.Exit(2)
	}

	opts := &options{}
	flags := pflag.NewFlagSet(name, pflag.ExitOnError)
	configFile := flags.StringP("config", "c", "config.toml", "configuration file")
	loglevel := flags.StringP("loglevel", "l", "", "log level (debug, info, warn, error)")
	flags.StringVarP(&opts.scope, "scope", "s", "", "scope name, overrides Scope from the config file")
	if name == "run" {
		flags.StringVarP(&opts.accounts, "accounts", "a", "", "accounts csv, overrides AccountsFile from the config file")
		flags.IntVarP(&opts.maxDomains, "max", "n", 0, "maximum domains in this batch, overrides MaxDomainsPerBatch")
		flags.BoolVar(&opts.dryRun, "dry-run", false, "only show which domains would be dispatched")
	}
	_ = flags.Parse(os.Args[2:])

	conf, err := config.ReadConfig(*configFile)
	if err != nil {
		logger.WithField("error", err).Fatal("Could not load config")
	}

	if conf.Loglevel != nil {
		log.SetLogLevel(*conf.Loglevel)
	}
	if len(*loglevel) > 0 {
		log.SetLogLevel(*loglevel)
	}
	if len(opts.scope) == 0 {
		opts.scope = conf.Scope
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = cmd(ctx, conf, opts, flags.Args())
	if err != nil {
		stop()
		logger.WithFields(logrus.Fields{"command": name, "scope": opts.scope, "error": err}).Fatal("Command failed")
	}
}
