package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/Iron-Ham/branchtint/internal/config"
	"github.com/Iron-Ham/branchtint/internal/logging"
	"github.com/Iron-Ham/branchtint/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View branchtint logs",
	Long: `View and filter the branchtint log file.

Examples:
  # Show the last 50 lines
  branchtint logs

  # Show everything
  branchtint logs -n 0

  # Follow logs in real-time
  branchtint logs -f

  # Filter by log level
  branchtint logs --level warn

  # Show logs from the last hour
  branchtint logs --since 1h

  # Search for specific patterns
  branchtint logs --grep "restore|corrupt"`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail   int
	logsFollow bool
	logsLevel  string
	logsSince  string
	logsGrep   string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of lines to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter logs matching pattern (regex)")
}

// logEntry is a parsed JSON log line
type logEntry struct {
	Time       time.Time
	Level      string
	Msg        string
	Component  string
	Repository string
	Branch     string
	Extra      []logField // Remaining fields in file order
}

type logField struct {
	Key   string
	Value string
}

// parseLogEntry parses one JSON log line. ok is false for lines that are
// not JSON objects.
func parseLogEntry(line string) (entry logEntry, ok bool) {
	if !gjson.Valid(line) {
		return entry, false
	}
	result := gjson.Parse(line)
	if !result.IsObject() {
		return entry, false
	}

	result.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "time":
			entry.Time, _ = time.Parse(time.RFC3339Nano, value.String())
		case "level":
			entry.Level = value.String()
		case "msg":
			entry.Msg = value.String()
		case "component":
			entry.Component = value.String()
		case "repository":
			entry.Repository = value.String()
		case "branch":
			entry.Branch = value.String()
		default:
			entry.Extra = append(entry.Extra, logField{Key: key.String(), Value: value.String()})
		}
		return true
	})
	return entry, true
}

var (
	logTimeStyle  = styles.Muted
	logFieldStyle = lipgloss.NewStyle().Foreground(styles.SecondaryColor)
)

// logLevels orders the levels for --level filtering and styles each.
var logLevels = []struct {
	name  string
	style lipgloss.Style
}{
	{logging.LevelDebug, styles.Muted},
	{logging.LevelInfo, styles.Primary},
	{logging.LevelWarn, styles.Warning},
	{logging.LevelError, styles.Error},
}

// levelPriority ranks level from 0 (debug) upwards; unknown levels are -1.
func levelPriority(level string) int {
	level = strings.ToUpper(level)
	for i, l := range logLevels {
		if l.name == level {
			return i
		}
	}
	return -1
}

func levelStyle(level string) lipgloss.Style {
	if i := levelPriority(level); i >= 0 {
		return logLevels[i].style
	}
	return styles.Text
}

// formatLogEntry formats a log entry for terminal output
func formatLogEntry(entry *logEntry) string {
	var sb strings.Builder

	sb.WriteString(logTimeStyle.Render("[" + entry.Time.Format("15:04:05.000") + "]"))
	sb.WriteString(" ")
	sb.WriteString(levelStyle(entry.Level).Render("[" + strings.ToUpper(entry.Level) + "]"))
	sb.WriteString(" ")
	sb.WriteString(entry.Msg)

	fields := make([]logField, 0, len(entry.Extra)+3)
	for _, f := range []logField{
		{"component", entry.Component},
		{"repository", entry.Repository},
		{"branch", entry.Branch},
	} {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	fields = append(fields, entry.Extra...)

	for _, f := range fields {
		sb.WriteString(" ")
		sb.WriteString(logFieldStyle.Render(f.Key + "="))
		sb.WriteString(f.Value)
	}

	return sb.String()
}

// logFilter selects log entries
type logFilter struct {
	minLevel int
	since    time.Time
	grep     *regexp.Regexp
}

func newLogFilter(level, since, grep string) (logFilter, error) {
	f := logFilter{minLevel: -1}
	if level != "" {
		f.minLevel = levelPriority(logging.ParseLevel(level))
	}
	if since != "" {
		duration, err := time.ParseDuration(since)
		if err != nil {
			return f, fmt.Errorf("invalid duration format: %w", err)
		}
		f.since = time.Now().Add(-duration)
	}
	if grep != "" {
		re, err := regexp.Compile(grep)
		if err != nil {
			return f, fmt.Errorf("invalid grep pattern: %w", err)
		}
		f.grep = re
	}
	return f, nil
}

// passes checks if a log entry passes all filter criteria
func (f logFilter) passes(entry *logEntry) bool {
	if f.minLevel >= 0 && levelPriority(entry.Level) < f.minLevel {
		return false
	}

	if !f.since.IsZero() && entry.Time.Before(f.since) {
		return false
	}

	// Grep filter - search in message and fields
	if f.grep != nil {
		parts := []string{entry.Msg, entry.Component, entry.Repository, entry.Branch}
		for _, field := range entry.Extra {
			parts = append(parts, field.Value)
		}
		if !f.grep.MatchString(strings.Join(parts, " ")) {
			return false
		}
	}

	return true
}

// formatLine filters and formats one raw line. Lines that are not JSON are
// passed through unless a filter is active.
func (f logFilter) formatLine(line string) (string, bool) {
	entry, ok := parseLogEntry(line)
	if !ok {
		return line, f.minLevel < 0 && f.since.IsZero() && f.grep == nil
	}
	if !f.passes(&entry) {
		return "", false
	}
	return formatLogEntry(&entry), true
}

func runLogs(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := config.Get()
	logPath := filepath.Join(cfg.LogDir(), logging.LogFileName)

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No logs found.")
		fmt.Fprintln(out, "Logs are stored at:", logPath)
		return nil
	}

	filter, err := newLogFilter(logsLevel, logsSince, logsGrep)
	if err != nil {
		return err
	}

	if logsFollow {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return followLogs(ctx, out, logPath, filter)
	}

	return displayLogs(out, logPath, logsTail, filter)
}

// displayLogs prints the last tail matching entries of the log, or all of
// them when tail is 0.
func displayLogs(out io.Writer, logPath string, tail int, filter logFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	var (
		shown []string
		next  int // ring position once shown holds tail entries
	)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		formatted, ok := filter.formatLine(line)
		if !ok {
			continue
		}
		if tail <= 0 || len(shown) < tail {
			shown = append(shown, formatted)
			continue
		}
		shown[next] = formatted
		next = (next + 1) % tail
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading log file: %w", err)
	}

	if len(shown) == 0 {
		fmt.Fprintln(out, "No matching log entries found.")
		return nil
	}
	for _, line := range slices.Concat(shown[next:], shown[:next]) {
		fmt.Fprintln(out, line)
	}
	return nil
}

// followLogs implements tail -f behavior for the log file until ctx is done
func followLogs(ctx context.Context, out io.Writer, logPath string, filter logFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	// Seek to end of file
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	fmt.Fprintf(out, "Following logs... (Ctrl+C to stop)\n\n")

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	reader := bufio.NewReader(file)
	var partial string
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("error reading log file: %w", err)
		}
		if err == io.EOF {
			// Keep an incomplete line until the rest is written
			partial += line
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
			continue
		}

		line = strings.TrimSpace(partial + line)
		partial = ""
		if line == "" {
			continue
		}
		if formatted, ok := filter.formatLine(line); ok {
			fmt.Fprintln(out, formatted)
		}
	}
}
