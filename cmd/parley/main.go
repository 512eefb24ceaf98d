// Parley - talk to a persona over a live model session.
// Streams microphone audio up, plays model speech back, and collects
// conversation context through tool calls.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/lumell/parley/internal/config"
	"github.com/lumell/parley/internal/log"
	"github.com/lumell/parley/pkg/audioio"
	"github.com/lumell/parley/pkg/persona"
	"github.com/lumell/parley/pkg/session"
	"github.com/lumell/parley/pkg/web"
)

type options struct {
	personaID string
	list      bool
	category  string
	serve     string
	backend   string
	model     string
	logLevel  string
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.personaID, "persona", "1", "Persona ID to talk to (see -list)")
	flag.BoolVar(&opts.list, "list", false, "List available personas and exit")
	flag.StringVar(&opts.category, "category", "", "Filter -list by category")
	flag.StringVar(&opts.serve, "serve", "", "Run the dashboard on this address (e.g. :8080) instead of a headless session")
	flag.StringVar(&opts.backend, "backend", string(audioio.BackendAuto), "Audio backend: auto, portaudio, mock")
	flag.StringVar(&opts.model, "model", "", "Model override")
	flag.StringVar(&opts.logLevel, "log-level", config.LogLevel("info"), "Log level: debug, info, warn, error")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()
	log.Init(opts.logLevel)
	logger := log.L()

	if opts.list {
		listPersonas(opts.category)
		return
	}

	p, err := persona.Get(opts.personaID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unknown persona %q, try -list\n", opts.personaID)
		os.Exit(1)
	}

	source, sink, err := openAudio(opts.backend)
	if err != nil {
		logger.Error("audio setup failed", "error", err)
		os.Exit(1)
	}
	defer source.Close()
	defer sink.Close()

	base := session.Options{
		Persona:     p,
		Credentials: config.NewKeychain(),
		Source:      source,
		Sink:        sink,
		Model:       opts.model,
		Logger:      logger,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if opts.serve != "" {
		if err := runDashboard(ctx, opts.serve, base); err != nil {
			logger.Error("dashboard failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runHeadless(ctx, base, p); err != nil {
		logger.Error("session failed", "error", err)
		os.Exit(1)
	}
}

func listPersonas(category string) {
	personas := persona.List()
	if category != "" {
		personas = persona.ByCategory(category)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tROLE\tCATEGORY\tVOICE")
	for _, p := range personas {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Role, p.Category, p.Voice)
	}
	w.Flush()
}

func openAudio(backend string) (audioio.Source, audioio.Sink, error) {
	captureCfg := audioio.DefaultCaptureConfig()
	captureCfg.Backend = audioio.Backend(backend)
	playbackCfg := audioio.DefaultPlaybackConfig()
	playbackCfg.Backend = audioio.Backend(backend)

	source, err := audioio.NewSource(captureCfg, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("microphone: %w", err)
	}
	sink, err := audioio.NewSink(playbackCfg, nil)
	if err != nil {
		source.Close()
		return nil, nil, fmt.Errorf("speaker: %w", err)
	}
	return source, sink, nil
}

// runHeadless talks to one persona until the session ends or the
// process is signaled. An invalid key gets one re-prompt and retry.
func runHeadless(ctx context.Context, base session.Options, p persona.Persona) error {
	fmt.Fprintf(os.Stderr, "Connecting to %s, %s. Press Ctrl-C to hang up.\n", p.Name, p.Role)

	controller, err := session.NewController(base)
	if err != nil {
		return err
	}

	err = controller.Connect(ctx)
	if errors.Is(err, session.ErrCredentialInvalid) {
		// The stored key was cleared; connecting again re-prompts.
		err = controller.Connect(ctx)
	}
	if err != nil {
		return err
	}
	defer controller.Disconnect()

	<-ctx.Done()
	fmt.Fprintln(os.Stderr, "\nHanging up.")

	printSummary(controller)
	return nil
}

func printSummary(controller *session.Controller) {
	fields := controller.ContextFields()
	captured := 0
	for _, f := range fields {
		if f.Verified {
			captured++
		}
	}
	if captured == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "\nCaptured context (%d):\n", captured)
	for _, f := range fields {
		if f.Verified {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", f.Label, f.Value)
		}
	}
}

func runDashboard(ctx context.Context, addr string, base session.Options) error {
	server := web.NewServer(web.Config{Addr: addr, Base: base})

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case <-ctx.Done():
		return server.Shutdown()
	case err := <-errCh:
		return err
	}
}
