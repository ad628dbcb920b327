// Package main provides the entry point for ghauthz, a terminal viewer for the
// OAuth authorizations granted on a GitHub account.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/simplaapliko/ghauthz/internal/browser"
	"github.com/simplaapliko/ghauthz/internal/buildinfo"
	"github.com/simplaapliko/ghauthz/internal/config"
	"github.com/simplaapliko/ghauthz/internal/console"
	"github.com/simplaapliko/ghauthz/internal/github"
	"github.com/simplaapliko/ghauthz/internal/logging"
	"github.com/simplaapliko/ghauthz/internal/tui"
	"github.com/simplaapliko/ghauthz/internal/util"
	log "github.com/sirupsen/logrus"
)

var (
	Version           = "dev"
	Commit            = "none"
	BuildDate         = "unknown"
	DefaultConfigPath = ""
)

// init initializes the shared logger setup.
func init() {
	logging.SetupBaseLogger()
	buildinfo.Version = Version
	buildinfo.Commit = Commit
	buildinfo.BuildDate = BuildDate
}

// cliFlags holds values given on the command line. Empty strings leave the
// configuration untouched.
type cliFlags struct {
	configPath    string
	plain         bool
	authorization string
	user          string
	password      string
	token         string
	baseURL       string
	debug         bool
	noBrowser     bool
	version       bool
}

func main() {
	os.Exit(run())
}

func run() int {
	var flags cliFlags
	flag.StringVar(&flags.configPath, "config", DefaultConfigPath, "Configure File Path")
	flag.BoolVar(&flags.plain, "plain", false, "Print the authorization list without the terminal UI")
	flag.StringVar(&flags.authorization, "authorization", "", "Raw Authorization header value, e.g. \"Basic abc123\"")
	flag.StringVar(&flags.user, "user", "", "GitHub username for basic authentication")
	flag.StringVar(&flags.password, "password", "", "GitHub password for basic authentication")
	flag.StringVar(&flags.token, "token", "", "GitHub personal access token")
	flag.StringVar(&flags.baseURL, "base-url", "", "GitHub REST API base URL")
	flag.BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&flags.noBrowser, "no-browser", false, "Don't open the browser from the terminal UI")
	flag.BoolVar(&flags.version, "version", false, "Print version and exit")
	flag.Parse()

	if flags.version {
		fmt.Printf("ghauthz Version: %s, Commit: %s, BuiltAt: %s\n", buildinfo.Version, buildinfo.Commit, buildinfo.BuildDate)
		return 0
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Errorf("failed to get working directory: %v", err)
		return 1
	}

	// Load environment variables from .env if present.
	if errLoad := godotenv.Load(filepath.Join(wd, ".env")); errLoad != nil {
		if !errors.Is(errLoad, os.ErrNotExist) {
			log.WithError(errLoad).Warn("failed to load .env file")
		}
	}

	configFilePath := flags.configPath
	optional := false
	if configFilePath == "" {
		configFilePath = filepath.Join(wd, "config.yaml")
		optional = true
	}
	cfg, err := config.LoadConfigOptional(configFilePath, optional)
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		return 1
	}
	cfg.ApplyEnv(os.LookupEnv)
	applyFlags(cfg, flags)

	if err = logging.ConfigureLogOutput(cfg); err != nil {
		log.Errorf("failed to configure log output: %v", err)
		return 1
	}
	defer logging.Close()
	util.SetLogLevel(cfg)

	credentials, err := cfg.Credentials()
	if err != nil {
		log.Error(err)
		fmt.Fprintln(os.Stderr, "set GITHUB_TOKEN, GITHUB_AUTHORIZATION or GITHUB_USER/GITHUB_PASSWORD, or pass -token")
		return 1
	}
	client := github.NewClient(cfg, credentials)

	if flags.plain || !isatty.IsTerminal(os.Stdout.Fd()) {
		return runConsole(client)
	}
	return runTUI(cfg, client, flags.noBrowser)
}

func applyFlags(cfg *config.Config, flags cliFlags) {
	if !cfg.OverrideCredentials(flags.authorization, flags.token, flags.user, flags.password) && flags.password != "" {
		cfg.Password = flags.password
	}
	if v := strings.TrimSpace(flags.baseURL); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if flags.debug {
		cfg.Debug = true
	}
}

func runConsole(client *github.Client) int {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	return console.Run(context.Background(), client, console.Options{
		Out:        os.Stdout,
		ErrOut:     os.Stderr,
		Interrupts: interrupts,
	})
}

func runTUI(cfg *config.Config, client *github.Client, noBrowser bool) int {
	hook := tui.NewLogHook(2000)
	hook.SetFormatter(&logging.LogFormatter{})
	log.AddHook(hook)

	origLogOutput := log.StandardLogger().Out
	if !cfg.LoggingToFile {
		log.SetOutput(io.Discard)
	}
	defer log.SetOutput(origLogOutput)

	openURL := browser.OpenURL
	if noBrowser {
		openURL = func(u string) error {
			return fmt.Errorf("browser disabled, visit %s", u)
		}
	}

	if errRun := tui.Run(tui.Options{
		Fetcher:  client,
		Hook:     hook,
		Locale:   cfg.Locale,
		OpenURL:  openURL,
		CopyText: clipboard.WriteAll,
		Output:   os.Stdout,
	}); errRun != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", errRun)
		return 1
	}
	return 0
}
