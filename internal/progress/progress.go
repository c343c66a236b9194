// Package progress provides progress indicators for long-running operations.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/klauern/rcstrings/internal/logging"
	"github.com/klauern/rcstrings/internal/ui"
)

// Bar wraps progressbar functionality with integration to rcstrings' UI and logging.
type Bar struct {
	bar     *progressbar.ProgressBar
	enabled bool
	desc    string
}

// Options configures the progress bar behavior.
type Options struct {
	// Max is the maximum value for the progress bar (total steps).
	Max int64
	// Description is the prefix text shown before the progress bar.
	Description string
	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer
}

// New creates a new progress bar with the given options.
// The bar is only shown if:
//   - Colors are enabled (respects NO_COLOR and --no-color)
//   - Output is a terminal
//   - Not in debug mode (to avoid interfering with logs)
func New(opts Options) *Bar {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	b := &Bar{
		enabled: shouldShowProgress(opts.Writer),
		desc:    opts.Description,
	}

	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s started", opts.Description),
			logging.Count(int(opts.Max)))
		return b
	}

	b.bar = progressbar.NewOptions64(
		opts.Max,
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWriter(opts.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprint(opts.Writer, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(ui.IsColorEnabled()),
	)

	return b
}

// Enabled reports whether the bar renders anything.
func (b *Bar) Enabled() bool { return b.enabled }

// Add increments the progress bar by n steps.
func (b *Bar) Add(n int) error {
	if !b.enabled {
		return nil
	}
	return b.bar.Add(n)
}

// Describe updates the progress bar description.
func (b *Bar) Describe(desc string) {
	b.desc = desc
	if !b.enabled {
		return
	}
	b.bar.Describe(desc)
}

// Finish completes the progress bar and logs completion.
func (b *Bar) Finish() error {
	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s completed", b.desc))
		return nil
	}
	return b.bar.Finish()
}

// shouldShowProgress determines if progress bars should be displayed.
// Progress is disabled if:
//   - Not outputting to a terminal
//   - Colors are disabled (NO_COLOR, --no-color)
//   - Logger is at debug level (to avoid interfering with debug output)
func shouldShowProgress(w io.Writer) bool {
	if !ui.IsColorEnabled() {
		return false
	}

	if f, ok := w.(*os.File); ok && !ui.IsTerminal(f) {
		return false
	}

	if logging.Default().Enabled(context.Background(), logging.LevelDebug) {
		return false
	}

	return true
}

// ScanReporter shows a bar while project files are scanned for headers.
type ScanReporter struct {
	writer io.Writer
	bar    *Bar
	steps  int
}

// NewScanReporter returns a reporter writing to w (os.Stderr when nil).
func NewScanReporter(w io.Writer) *ScanReporter {
	return &ScanReporter{writer: w}
}

// Start begins a bar of total steps.
func (r *ScanReporter) Start(total int) {
	r.steps = 0
	r.bar = New(Options{
		Max:         int64(total),
		Description: "Scanning resource scripts",
		Writer:      r.writer,
	})
}

// Step advances the bar past path.
func (r *ScanReporter) Step(path string) {
	if r.bar == nil {
		return
	}
	r.steps++
	r.bar.Describe(filepath.Base(path))
	_ = r.bar.Add(1)
}

// Done finishes the bar.
func (r *ScanReporter) Done() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	logging.Debug("scan finished", logging.Count(r.steps))
}

// Steps returns the number of files reported since Start.
func (r *ScanReporter) Steps() int { return r.steps }
