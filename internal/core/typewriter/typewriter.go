// Package typewriter reveals text one grapheme cluster at a time on a timer.
//
// An Engine types either one block of text or a sequence of lines. It only
// ticks while active; deactivation halts it and clears the output, and
// reactivation always types again from the first character.
package typewriter

import (
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

const (
	// DefaultBlockInterval is the per-character delay for block text
	DefaultBlockInterval = 50 * time.Millisecond
	// DefaultLineInterval is the per-character delay in line mode
	DefaultLineInterval = 32 * time.Millisecond
	// DefaultLinePause is the gap between two lines in line mode
	DefaultLinePause = 400 * time.Millisecond
	// DefaultCompletionDelay is the trailing delay before OnComplete fires
	DefaultCompletionDelay = 500 * time.Millisecond
)

// Scheduler is the keyed timer queue the engine runs on
type Scheduler interface {
	Schedule(key string, d time.Duration, fn func())
	Cancel(key string) bool
}

// Mode selects block or per-line typing
type Mode int

const (
	ModeBlock Mode = iota
	ModeLines
)

func (m Mode) String() string {
	if m == ModeLines {
		return "lines"
	}
	return "block"
}

// Options tune an Engine. Zero values select the defaults for the mode.
type Options struct {
	Interval        time.Duration
	LinePause       time.Duration
	CompletionDelay time.Duration
	// NoCompletionDelay fires OnComplete without the trailing delay
	NoCompletionDelay bool

	// OnComplete fires once per activation after the last character
	OnComplete func()
	// OnChange fires with the displayed text whenever it changes
	OnChange func(displayed string)
}

// Line is the typed state of one line in line mode
type Line struct {
	Text     string
	Complete bool
}

// Engine is a single typewriter. It is driven entirely by its Scheduler and
// must be used from the scheduler's event loop.
type Engine struct {
	sched Scheduler
	key   string
	opts  Options
	mode  Mode

	source []string   // raw lines (block mode holds one entry)
	units  [][]string // grapheme clusters per line

	active     bool
	running    bool
	done       bool
	completed  bool
	activation uint64

	line   int
	cursor int
}

// New creates an inactive engine. key namespaces its timers in sched.
func New(sched Scheduler, key string, opts Options) *Engine {
	e := &Engine{
		sched: sched,
		key:   key,
		opts:  opts,
	}
	e.load(ModeBlock, []string{""})
	return e
}

// NewBlock creates an inactive engine for one block of text
func NewBlock(sched Scheduler, key, content string, opts Options) *Engine {
	e := New(sched, key, opts)
	e.SetContent(content)
	return e
}

// NewLines creates an inactive engine that types lines one after another
func NewLines(sched Scheduler, key string, lines []string, opts Options) *Engine {
	e := New(sched, key, opts)
	e.SetLines(lines)
	return e
}

// Mode returns the current typing mode
func (e *Engine) Mode() Mode {
	return e.mode
}

// SetContent switches to block mode with new text. An active engine restarts
// on the new content.
func (e *Engine) SetContent(content string) {
	e.load(ModeBlock, []string{content})
	e.restartIfActive()
}

// SetLines switches to line mode with new lines. An active engine restarts
// on the new content.
func (e *Engine) SetLines(lines []string) {
	if lines == nil {
		lines = []string{}
	}
	e.load(ModeLines, lines)
	e.restartIfActive()
}

// SetActive starts or stops the engine. Activating an idle engine always
// types from the beginning; activating a running or finished engine is a
// no-op. Deactivating cancels every timer and clears the output.
func (e *Engine) SetActive(active bool) {
	if active {
		if e.active {
			return
		}
		e.active = true
		e.start()
		return
	}

	wasVisible := e.active || e.cursor > 0 || e.line > 0
	e.active = false
	e.halt()
	if wasVisible {
		e.notify()
	}
}

// Active reports whether the engine is activated
func (e *Engine) Active() bool {
	return e.active
}

// Running reports whether a run is ticking
func (e *Engine) Running() bool {
	return e.running
}

// Done reports whether the current activation has typed everything
func (e *Engine) Done() bool {
	return e.done
}

// Displayed returns the text revealed so far. Lines are joined with "\n".
func (e *Engine) Displayed() string {
	if !e.active {
		return ""
	}
	if e.mode == ModeBlock {
		return strings.Join(e.units[0][:e.cursor], "")
	}
	lines := e.Lines()
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}

// Lines returns the lines revealed so far in line mode. In block mode it
// returns a single entry.
func (e *Engine) Lines() []Line {
	if !e.active {
		return nil
	}
	if e.mode == ModeBlock {
		return []Line{{Text: strings.Join(e.units[0][:e.cursor], ""), Complete: e.done}}
	}

	var out []Line
	for i := 0; i < len(e.units) && i <= e.line; i++ {
		switch {
		case i < e.line || e.done:
			out = append(out, Line{Text: e.source[i], Complete: true})
		case e.cursor > 0:
			out = append(out, Line{Text: strings.Join(e.units[i][:e.cursor], "")})
		}
	}
	return out
}

// Progress returns how many units have been typed out of the total
func (e *Engine) Progress() (typed, total int) {
	for i, u := range e.units {
		total += len(u)
		if !e.active {
			continue
		}
		switch {
		case i < e.line || e.done:
			typed += len(u)
		case i == e.line:
			typed += e.cursor
		}
	}
	return typed, total
}

func (e *Engine) load(mode Mode, lines []string) {
	e.mode = mode
	e.source = lines
	e.units = make([][]string, len(lines))
	for i, l := range lines {
		e.units[i] = clusters(l)
	}
	if len(e.units) == 0 {
		e.units = [][]string{{}}
		e.source = []string{""}
	}
}

func (e *Engine) restartIfActive() {
	if !e.active {
		return
	}
	e.halt()
	e.start()
}

func (e *Engine) start() {
	if e.running {
		return
	}
	e.activation++
	e.running = true
	e.done = false
	e.completed = false
	e.line = 0
	e.cursor = 0
	e.notify()

	// nothing to type: complete at the current instant, skipping the
	// trailing delay
	if e.lineFinished() && e.line == len(e.units)-1 {
		e.finish(0)
		return
	}
	e.sched.Schedule(e.key, e.interval(), e.tick)
}

func (e *Engine) halt() {
	e.sched.Cancel(e.key)
	e.sched.Cancel(e.doneKey())
	e.running = false
	e.done = false
	e.completed = false
	e.line = 0
	e.cursor = 0
}

func (e *Engine) tick() {
	if !e.running {
		return
	}

	if e.cursor < len(e.units[e.line]) {
		e.cursor++
	}
	if !e.lineFinished() {
		e.notify()
		e.sched.Schedule(e.key, e.interval(), e.tick)
		return
	}

	if e.line+1 < len(e.units) {
		e.line++
		e.cursor = 0
		e.notify()
		e.sched.Schedule(e.key, e.linePause(), e.tick)
		return
	}

	e.finish(e.completionDelay())
}

func (e *Engine) finish(delay time.Duration) {
	e.running = false
	e.done = true
	e.notify()

	activation := e.activation
	e.sched.Schedule(e.doneKey(), delay, func() {
		if !e.active || e.activation != activation || e.completed {
			return
		}
		e.completed = true
		if e.opts.OnComplete != nil {
			e.opts.OnComplete()
		}
	})
}

func (e *Engine) lineFinished() bool {
	return e.cursor >= len(e.units[e.line])
}

func (e *Engine) notify() {
	if e.opts.OnChange != nil {
		e.opts.OnChange(e.Displayed())
	}
}

func (e *Engine) doneKey() string {
	return e.key + "/done"
}

func (e *Engine) interval() time.Duration {
	if e.opts.Interval > 0 {
		return e.opts.Interval
	}
	if e.mode == ModeLines {
		return DefaultLineInterval
	}
	return DefaultBlockInterval
}

func (e *Engine) linePause() time.Duration {
	if e.opts.LinePause > 0 {
		return e.opts.LinePause
	}
	return DefaultLinePause
}

func (e *Engine) completionDelay() time.Duration {
	if e.opts.NoCompletionDelay {
		return 0
	}
	if e.opts.CompletionDelay > 0 {
		return e.opts.CompletionDelay
	}
	return DefaultCompletionDelay
}

// clusters splits s into user-perceived characters
func clusters(s string) []string {
	out := make([]string, 0, len(s))
	state := -1
	for len(s) > 0 {
		var c string
		c, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		out = append(out, c)
	}
	return out
}

// SplitLines splits content on line breaks for line mode
func SplitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return []string{}
	}
	return strings.Split(content, "\n")
}
