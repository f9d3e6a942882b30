package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/joshua-takyi/jocky/internal/config"
	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/remote"
	"github.com/joshua-takyi/jocky/internal/scheduling"
	"github.com/joshua-takyi/jocky/internal/session"
)

type flagConfig struct {
	configPath string
	apiURL     string
	yes        bool
}

// app is what every subcommand runs against.
type app struct {
	client  *remote.Client
	cfg     *config.ClientConfig
	nav     scheduling.Navigator
	confirm remote.Confirmer
	out     io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":          {"login -email E [-password P]", runLogin},
	"logout":         {"logout", runLogout},
	"events":         {"events [-status S] [-from D] [-to D]", runEvents},
	"create":         {"create -name N -date D -start HH:MM -end HH:MM -amount A [-artist ID -artist-name N]", runCreate},
	"month":          {"month [-date D] [-next|-prev]", runMonth},
	"week":           {"week [-date D] [-next|-prev]", runWeek},
	"agenda":         {"agenda [-from D] [-to D]", runAgenda},
	"history":        {"history", runHistory},
	"offer":          {"offer -event ID -artist ID [-artist-name N]", runOffer},
	"accept":         {"accept EVENT", transitionCommand((*remote.Client).AcceptOffer)},
	"decline":        {"decline EVENT", transitionCommand((*remote.Client).DeclineOffer)},
	"cancel-offer":   {"cancel-offer EVENT", transitionCommand((*remote.Client).CancelOffer)},
	"cancel":         {"cancel EVENT", transitionCommand((*remote.Client).CancelEvent)},
	"edit":           {"edit EVENT [-name N] [-date D] [-start HH:MM] [-end HH:MM] [-amount A] [-notes T] [-genres G1,G2]", runEdit},
	"delete":         {"delete EVENT", runDelete},
	"requests":       {"requests EVENT", runRequests},
	"apply":          {"apply EVENT [-message M]", runApply},
	"accept-request": {"accept-request EVENT [REQUEST]", resolveCommand(true)},
	"reject-request": {"reject-request EVENT [REQUEST]", resolveCommand(false)},
	"artists":        {"artists [-q Q] [-type T] [-genre G] [-location L]", runArtists},
	"pool":           {"pool [add|remove ARTIST]", runPool},
	"messages":       {"messages [CONVERSATION]", runMessages},
	"send":           {"send -to USER -text T [-event ID]", runSend},
	"ics":            {"ics [-o FILE]", runICS},
}

func main() {
	_ = godotenv.Load(".env.local")

	flags := parseFlags()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, closeStore, err := setup(ctx, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "jocky:", err)
		os.Exit(1)
	}
	defer closeStore()

	if err := cmd.run(ctx, a, args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "jocky:", describe(err))
		closeStore()
		os.Exit(1)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	defaultConfig := os.Getenv("JOCKY_CONFIG")
	if defaultConfig == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			defaultConfig = filepath.Join(dir, "jocky", "config.yaml")
		}
	}
	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file")
	flag.StringVar(&cfg.apiURL, "api", "", "API base URL (overrides config if set)")
	flag.BoolVar(&cfg.yes, "yes", false, "Answer yes to confirmation prompts")
	flag.Usage = usage

	flag.Parse()

	return cfg
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: jocky [-config FILE] [-api URL] [-yes] COMMAND [ARGS]")
	fmt.Fprintln(os.Stderr, "commands:")
	for _, name := range sortedCommands() {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
}

func setup(ctx context.Context, flags flagConfig) (*app, func(), error) {
	cfg, err := config.LoadClientConfig(flags.configPath)
	if err != nil {
		return nil, nil, err
	}
	if flags.apiURL != "" {
		cfg.APIURL = flags.apiURL
	}
	anchor, err := cfg.AnchorDate()
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLevel(cfg.LogLevel)}))

	if err := os.MkdirAll(filepath.Dir(cfg.StatePath), 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create state dir: %w", err)
	}
	store, err := session.OpenSQLiteStore(cfg.StatePath)
	if err != nil {
		return nil, nil, err
	}
	sess, err := session.Restore(ctx, store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	var confirm remote.Confirmer = remote.Prompter{In: os.Stdin, Out: os.Stderr}
	if flags.yes {
		confirm = remote.Assume(true)
	}

	client := remote.NewClient(cfg.APIURL, sess, remote.WithStore(store), remote.WithLogger(logger))
	a := &app{
		client:  client,
		cfg:     cfg,
		nav:     scheduling.NewNavigator(anchor),
		confirm: confirm,
		out:     os.Stdout,
	}
	closed := false
	return a, func() {
		if !closed {
			closed = true
			store.Close()
		}
	}, nil
}

// describe turns the error taxonomy into one line for the terminal.
func describe(err error) string {
	var apiErr *remote.APIError
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return fmt.Sprintf("invalid %s: %s", ve.Field, ve.Message)
	case errors.As(err, &apiErr):
		return fmt.Sprintf("server said %s (HTTP %d)", apiErr.Message, apiErr.Status)
	case errors.Is(err, models.ErrConfirmationRequired):
		return "cancelled"
	}
	return err.Error()
}
