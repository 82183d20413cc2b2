package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Kind is the sort of page a build step rendered.
type Kind string

const (
	KindListing Kind = "listing"
	KindPost    Kind = "post"
)

// Step describes one rendered page.
type Step struct {
	Kind Kind
	// Name is the category for listings and the slug for posts.
	Name string
	// Path is the output path relative to the build directory.
	Path string
	// Missing is set when a post page was written without its body.
	Missing bool
}

func (s Step) String() string {
	msg := fmt.Sprintf("%s %s", s.Kind, s.Name)
	if s.Missing {
		msg += " (body missing)"
	}
	return msg
}

// Reporter provides progress feedback during a site build.
type Reporter interface {
	Start(total int)
	Update(current int, step Step)
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{Out: os.Stderr}
	}
	return &TerminalReporter{}
}

// Nop discards progress.
type Nop struct{}

func (Nop) Start(int)        {}
func (Nop) Update(int, Step) {}
func (Nop) Finish()          {}

// tally counts steps by kind.
type tally struct {
	listings, posts, missing int
}

func (t *tally) add(s Step) {
	switch s.Kind {
	case KindListing:
		t.listings++
	case KindPost:
		t.posts++
		if s.Missing {
			t.missing++
		}
	}
}

func (t tally) String() string {
	return fmt.Sprintf("%d listing(s), %d post(s), %d missing body", t.listings, t.posts, t.missing)
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	bar   *progressbar.ProgressBar
	tally tally
}

func (r *TerminalReporter) Start(total int) {
	r.tally = tally{}
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Building site"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, step Step) {
	r.tally.add(step)
	if r.bar != nil {
		r.bar.Describe(step.String())
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
	fmt.Fprintf(os.Stderr, "Built %s\n", r.tally)
}

// CIReporter prints one line per page, suitable for CI logs.
type CIReporter struct {
	Out   io.Writer
	total int
	tally tally
}

func (r *CIReporter) Start(total int) {
	r.total = total
	r.tally = tally{}
	fmt.Fprintf(r.out(), "Building %d pages\n", total)
}

func (r *CIReporter) Update(current int, step Step) {
	r.tally.add(step)
	fmt.Fprintf(r.out(), "[%d/%d] %s -> %s\n", current, r.total, step, step.Path)
}

func (r *CIReporter) Finish() {
	fmt.Fprintf(r.out(), "Site build complete: %s\n", r.tally)
}

func (r *CIReporter) out() io.Writer {
	if r.Out == nil {
		return os.Stderr
	}
	return r.Out
}
