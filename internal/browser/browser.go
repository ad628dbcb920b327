// Package browser opens GitHub pages in the user's default web browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	log "github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
)

// linuxBrowsers are tried in order when open-golang cannot launch a browser.
var linuxBrowsers = []string{"xdg-open", "x-www-browser", "www-browser", "firefox", "chromium", "google-chrome"}

// Swapped in tests.
var (
	openRun  = open.Run
	lookPath = exec.LookPath
	startCmd = func(cmd *exec.Cmd) error { return cmd.Start() }
)

// OpenURL opens rawURL in the default web browser. Only http and https URLs are accepted.
// It tries open-golang first and falls back to platform-specific commands.
func OpenURL(rawURL string) error {
	if err := validate(rawURL); err != nil {
		return err
	}

	err := openRun(rawURL)
	if err == nil {
		log.WithField("url", rawURL).Debug("browser: opened with open-golang")
		return nil
	}
	log.Debugf("browser: open-golang failed: %v, trying platform-specific commands", err)

	cmd, err := platformCommand(runtime.GOOS, rawURL)
	if err != nil {
		return err
	}
	log.Debugf("browser: running %s %v", cmd.Path, cmd.Args[1:])
	if err = startCmd(cmd); err != nil {
		return fmt.Errorf("browser: failed to start %s: %w", cmd.Path, err)
	}
	return nil
}

func validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("browser: invalid url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("browser: refusing to open %q", rawURL)
	}
	return nil
}

func platformCommand(goos, rawURL string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", rawURL), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		for _, name := range linuxBrowsers {
			if path, err := lookPath(name); err == nil {
				return exec.Command(path, rawURL), nil
			}
		}
		return nil, fmt.Errorf("browser: no suitable browser found")
	default:
		return nil, fmt.Errorf("browser: unsupported operating system: %s", goos)
	}
}
