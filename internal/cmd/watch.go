package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Iron-Ham/branchtint/internal/event"
	"github.com/Iron-Ham/branchtint/internal/logging"
	"github.com/Iron-Ham/branchtint/internal/surface"
	"github.com/Iron-Ham/branchtint/internal/tui"
	"github.com/Iron-Ham/branchtint/internal/tui/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the branch colors up to date",
	Long: `Watch the workspace repositories and re-render whenever the branch
may have changed: a checkout or commit (HEAD and refs are watched), a
config file edit, a new active document, or the periodic refresh tick.

When stdout is a terminal an interactive view is shown:
  c  copy branch      r  refresh
  d  debug report     t  test rules
  q  quit

Otherwise each status change is printed as a line.

The active document can be fed as newline-separated paths:
  editor-hook | branchtint watch --plain --documents -`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var (
	watchPlain     bool
	watchDocuments string
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchPlain, "plain", false, "print status lines instead of the interactive view")
	watchCmd.Flags().StringVar(&watchDocuments, "documents", "", "read active document paths from a file or FIFO, - for stdin")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := !watchPlain && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive && watchDocuments == "-" {
		return fmt.Errorf("--documents - needs stdin, which the interactive view uses; add --plain")
	}

	var docs io.Reader
	switch watchDocuments {
	case "":
	case "-":
		docs = cmd.InOrStdin()
	default:
		f, err := os.Open(watchDocuments)
		if err != nil {
			return fmt.Errorf("failed to open document feed: %w", err)
		}
		defer f.Close()
		docs = f
	}

	if interactive {
		return runWatchInteractive(ctx, cmd, docs)
	}
	return runWatchPlain(ctx, cmd, docs)
}

func runWatchPlain(ctx context.Context, cmd *cobra.Command, docs io.Reader) error {
	out := surface.NewTerminal(cmd.OutOrStdout())
	a, err := newApp(ctx, cmd, appOptions{status: out, watch: true})
	if err != nil {
		return err
	}
	defer a.Close()

	startSources(ctx, a, out, docs)
	out.Info(styles.Muted.Render(fmt.Sprintf("Watching %d repositories (Ctrl+C to stop)", len(a.provider.Repositories()))))

	if err := a.hl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runWatchInteractive(ctx context.Context, cmd *cobra.Command, docs io.Reader) error {
	var program *tea.Program
	surf := tui.NewSurface(func(msg tea.Msg) { program.Send(msg) })

	a, err := newApp(ctx, cmd, appOptions{status: surf, watch: true})
	if err != nil {
		return err
	}
	defer a.Close()

	program = tea.NewProgram(
		tui.NewModel(ctx, a, a.store.Path()),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	surf.Forward(a.bus)
	startSources(ctx, a, surf, docs)

	runCtx, cancel := context.WithCancel(ctx)
	var wg conc.WaitGroup
	wg.Go(func() {
		_ = a.hl.Run(runCtx)
	})

	_, err = program.Run()
	cancel()
	wg.Wait()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, tea.ErrInterrupted) {
		return fmt.Errorf("interactive view failed: %w", err)
	}
	return nil
}

// startSources connects the config file watcher and the document feed to
// the bus. The repository watcher is started by newApp.
func startSources(ctx context.Context, a *app, notifier surface.Notifier, docs io.Reader) {
	watchConfig(a, notifier)
	if docs != nil {
		go feedDocuments(ctx, a.bus, docs, a.logger)
	}
}

func watchConfig(a *app, notifier surface.Notifier) {
	if viper.ConfigFileUsed() == "" {
		a.logger.Debug("no config file to watch")
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		if err := a.reloadConfig(); err != nil {
			notifier.Warn(fmt.Sprintf("Configuration ignored: %v", err))
			return
		}
		notifier.Info("Configuration reloaded")
		a.bus.Publish(event.NewConfigChangedEvent(e.Name))
	})
	viper.WatchConfig()
}

// feedDocuments publishes one document.activated event per line of r. An
// empty line means no document is active.
func feedDocuments(ctx context.Context, bus *event.Bus, r io.Reader, logger *logging.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		path := strings.TrimSpace(scanner.Text())
		if path != "" {
			path = absPath(path)
		}
		logger.Debug("active document", "path", path)
		bus.Publish(event.NewDocumentActivatedEvent(path))
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("document feed failed", "error", err.Error())
	}
}
