// Package config provides configuration helpers for parley commands.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// EnvAPIKey is the environment variable holding the Gemini API key.
const EnvAPIKey = "GEMINI_API_KEY"

// keyFile returns the path of the saved API key file.
func keyFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "parley", "apikey"), nil
}

// LogLevel returns the log level from PARLEY_LOG_LEVEL or the default.
func LogLevel(def string) string {
	if lvl := os.Getenv("PARLEY_LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return def
}

// Keychain resolves the API key used to open live sessions.
// It checks the environment first, then a key file under the user
// config directory, and can prompt interactively for a new key.
type Keychain struct {
	// Path overrides the default key file location. Empty uses the
	// per-user config directory.
	Path string

	// In and Out are used for interactive prompting.
	// They default to stdin/stderr.
	In  io.Reader
	Out io.Writer
}

// NewKeychain returns a Keychain with default prompt streams.
func NewKeychain() *Keychain {
	return &Keychain{In: os.Stdin, Out: os.Stderr}
}

func (k *Keychain) path() (string, error) {
	if k.Path != "" {
		return k.Path, nil
	}
	return keyFile()
}

// Key returns the selected API key, or an empty string if none is set.
func (k *Keychain) Key() (string, error) {
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key, nil
	}
	path, err := k.path()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// HasSelection reports whether a usable API key is already selected.
func (k *Keychain) HasSelection() bool {
	key, err := k.Key()
	return err == nil && key != ""
}

// PromptSelection asks the user for an API key, saves it to the key
// file, and returns it. It is invoked before a connect attempt when no
// key is selected, and again when the service rejects the current key.
func (k *Keychain) PromptSelection() (string, error) {
	in := k.In
	if in == nil {
		in = os.Stdin
	}
	out := k.Out
	if out == nil {
		out = os.Stderr
	}

	fmt.Fprintf(out, "No Gemini API key selected.\n")
	fmt.Fprintf(out, "Set %s or enter a key now (https://aistudio.google.com/apikey): ", EnvAPIKey)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("config: read API key: %w", err)
		}
		return "", fmt.Errorf("config: no API key entered")
	}
	key := strings.TrimSpace(scanner.Text())
	if key == "" {
		return "", fmt.Errorf("config: no API key entered")
	}

	path, err := k.path()
	if err != nil {
		return "", fmt.Errorf("config: resolve key file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("config: create key dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(key+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("config: save key file: %w", err)
	}
	return key, nil
}

// ClearSelection removes the saved key file. The environment variable,
// if set, still takes effect.
func (k *Keychain) ClearSelection() error {
	path, err := k.path()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
