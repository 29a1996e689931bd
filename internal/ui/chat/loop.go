// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"go.uber.org/zap"

	"github.com/jeranaias/aurora-tui/internal/events"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/session"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
	"github.com/jeranaias/aurora-tui/internal/ui/surface"
)

// =============================================================================
// STATE
// =============================================================================

// State is the loop's turn state.
type State int

const (
	// StateIdle accepts a new submission.
	StateIdle State = iota
	// StateStreaming has a turn in flight.
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// DefaultNoticeTTL is how long a transient notice stays in the status row.
const DefaultNoticeTTL = 3 * time.Second

// Notices shown in the status row.
const (
	NoticeBusy       = "a response is still streaming (Esc stops it)"
	NoticeClearBusy  = "cannot clear while a response is streaming"
	NoticeCleared    = "history cleared"
	NoticeCancelling = "stopping..."
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Loop.
type Options struct {
	// Model is shown in the header.
	Model string

	// Greeting, when set, is shown as the first assistant entry. It never
	// enters the conversation context.
	Greeting string

	// HistoryLimit caps the transcript entries; 0 is unbounded.
	HistoryLimit int

	Keys      KeyMap
	NoticeTTL time.Duration
	Logger    *zap.Logger

	// Now is the clock; tests pin it.
	Now func() time.Time
}

// =============================================================================
// LOOP
// =============================================================================

// Loop ties the session, the transcript and the surface together. All
// methods must be called from one goroutine.
type Loop struct {
	surface surface.Surface
	session *session.Session
	opts    Options
	logger  *zap.Logger

	// base parents every turn context; stop cancels it on quit.
	base context.Context
	stop context.CancelFunc

	transcript *model.Transcript
	input      InputLine
	state      State

	turn    *session.Turn
	channel *events.Channel
	// open is set while the last transcript entry receives fragments.
	open    bool
	partial strings.Builder

	scroll      int
	notice      string
	noticeUntil time.Time
	quit        bool

	// lines and cols describe the last drawn transcript.
	lines int
	cols  int
}

// New creates a loop drawing to surf and submitting turns to sess.
func New(surf surface.Surface, sess *session.Session, opts Options) *Loop {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NoticeTTL <= 0 {
		opts.NoticeTTL = DefaultNoticeTTL
	}
	if len(opts.Keys.Submit.Keys()) == 0 {
		opts.Keys = DefaultKeyMap()
	}

	base, stop := context.WithCancel(context.Background())
	l := &Loop{
		surface:    surf,
		session:    sess,
		opts:       opts,
		logger:     opts.Logger.Named("loop"),
		base:       base,
		stop:       stop,
		transcript: model.NewTranscript(opts.HistoryLimit),
	}
	if opts.Greeting != "" {
		l.transcript.Append(model.Entry{Role: model.RoleAssistant, Text: opts.Greeting})
	}
	return l
}

// State returns the turn state.
func (l *Loop) State() State { return l.state }

// Transcript returns a snapshot of the visible entries.
func (l *Loop) Transcript() []model.Entry { return l.transcript.Snapshot() }

// Input returns the text typed so far.
func (l *Loop) Input() string { return l.input.String() }

// Notice returns the active transient notice, if any.
func (l *Loop) Notice() string {
	if l.notice != "" && l.opts.Now().Before(l.noticeUntil) {
		return l.notice
	}
	return ""
}

// Scroll returns the scroll offset in lines from the tail.
func (l *Loop) Scroll() int { return l.scroll }

// Quitting reports whether quit was requested.
func (l *Loop) Quitting() bool { return l.quit }

// Turn returns the turn in flight, or nil.
func (l *Loop) Turn() *session.Turn { return l.turn }

// Tick runs one iteration: drain events, apply at most one key, redraw.
// It returns false once the loop has quit.
func (l *Loop) Tick() bool {
	if l.quit {
		return false
	}

	l.drain()

	if k, ok := l.surface.ReadKey(); ok {
		l.handleKey(k)
	}

	if err := l.draw(); err != nil {
		l.logger.Debug("present failed", zap.Error(err))
	}

	if l.quit {
		l.shutdown()
		return false
	}
	return true
}

// Run calls Tick every interval until quit or until ctx is done. A
// cancelled ctx is a clean exit.
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for l.Tick() {
		select {
		case <-ctx.Done():
			l.Quit()
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

// Quit cancels the turn in flight and stops the loop. Text already shown
// stays in the transcript.
func (l *Loop) Quit() {
	if l.quit {
		return
	}
	l.quit = true
	l.shutdown()
}

func (l *Loop) shutdown() {
	l.stop()
	if l.turn != nil {
		l.turn.Cancel()
		l.channel.Close()
		l.turn.Wait()
		l.logger.Debug("turn abandoned on quit", zap.String("turn", l.turn.ID))
		l.endTurn()
	}
}

// =============================================================================
// EVENTS
// =============================================================================

func (l *Loop) drain() {
	if l.channel == nil {
		return
	}
	for _, ev := range l.channel.Drain() {
		if l.turn == nil || ev.TurnID != l.turn.ID {
			continue
		}
		l.apply(ev)
	}
}

func (l *Loop) apply(ev events.Event) {
	switch ev.Kind {
	case events.Fragment:
		l.partial.WriteString(ev.Text)
		l.setOpen(l.partial.String())

	case events.Done:
		l.setOpen(ev.Text)
		l.logger.Debug("turn done",
			zap.String("turn", l.turn.ID),
			zap.Int("chars", len(ev.Text)),
		)
		l.endTurn()

	case events.Error:
		l.open = false
		l.transcript.Append(model.Entry{
			Role:   model.RoleAssistant,
			Text:   "Error: " + ev.Text,
			Failed: true,
		})
		l.logger.Debug("turn failed",
			zap.String("turn", l.turn.ID),
			zap.String("error", ev.Text),
		)
		l.endTurn()
	}
}

// setOpen writes text into the open assistant entry, appending it first if
// this turn has none yet.
func (l *Loop) setOpen(text string) {
	if !l.open {
		l.transcript.Append(model.Entry{Role: model.RoleAssistant, Text: text})
		l.open = true
		return
	}
	l.transcript.ReplaceLastIf(model.RoleAssistant, text)
}

func (l *Loop) endTurn() {
	if l.channel != nil {
		l.channel.Close()
	}
	l.turn = nil
	l.channel = nil
	l.open = false
	l.partial.Reset()
	l.state = StateIdle
}

// =============================================================================
// KEYS
// =============================================================================

func (l *Loop) handleKey(k surface.Key) {
	keys := l.opts.Keys
	switch {
	case matches(k, keys.Quit):
		l.quit = true
	case matches(k, keys.Submit):
		l.submit()
	case matches(k, keys.Delete):
		l.input.DeleteLast()
	case matches(k, keys.Clear):
		l.clear()
	case matches(k, keys.Cancel):
		if l.turn != nil {
			l.turn.Cancel()
			l.setNotice(NoticeCancelling)
		}
	case matches(k, keys.Up):
		l.scroll = addScroll(l.scroll, 1)
	case matches(k, keys.Down):
		l.scroll = max(0, l.scroll-1)
	case matches(k, keys.PageUp):
		l.scroll = addScroll(l.scroll, l.page())
	case matches(k, keys.PageDown):
		l.scroll = max(0, l.scroll-l.page())
	case matches(k, keys.Home):
		l.scroll = math.MaxInt
	case matches(k, keys.End):
		l.scroll = 0
	case k.Printable():
		l.input.Append(k.Rune)
	}
}

func (l *Loop) submit() {
	if l.input.IsBlank() {
		l.input.Reset()
		return
	}
	if l.state == StateStreaming {
		l.setNotice(NoticeBusy)
		return
	}

	text := l.input.Submit()
	l.transcript.Append(model.Entry{Role: model.RoleUser, Text: text})

	l.channel = events.NewChannel()
	l.turn = l.session.Submit(l.base, text, l.channel)
	l.state = StateStreaming
	l.scroll = 0
	l.notice = ""

	l.logger.Debug("turn submitted", zap.String("turn", l.turn.ID), zap.Int("chars", len(text)))
}

func (l *Loop) clear() {
	if l.state == StateStreaming {
		l.setNotice(NoticeClearBusy)
		return
	}
	l.transcript.Clear()
	l.session.Reset()
	l.scroll = 0
	l.setNotice(NoticeCleared)
}

func (l *Loop) setNotice(msg string) {
	l.notice = msg
	l.noticeUntil = l.opts.Now().Add(l.opts.NoticeTTL)
}

func (l *Loop) page() int {
	rows, _ := l.surface.Size()
	return max(1, rows-chromeRows-1)
}

// =============================================================================
// DRAWING
// =============================================================================

func (l *Loop) draw() error {
	rows, cols := l.surface.Size()
	entries := l.transcript.Snapshot()
	v := l.view()
	frame := Layout(entries, rows, cols, v)
	// A scrolled view stays on the same lines while the tail grows.
	if l.scroll > 0 && l.lines > 0 && cols == l.cols && frame.Lines > l.lines {
		v.Scroll = addScroll(l.scroll, frame.Lines-l.lines)
		frame = Layout(entries, rows, cols, v)
	}
	if !frame.TooSmall {
		l.scroll = frame.Scroll
		l.lines, l.cols = frame.Lines, cols
	}
	return frame.Draw(l.surface)
}

// addScroll adds n >= 0 lines to offset, saturating at math.MaxInt.
func addScroll(offset, n int) int {
	if offset > math.MaxInt-n {
		return math.MaxInt
	}
	return offset + n
}

func (l *Loop) view() View {
	now := l.opts.Now()
	v := View{
		Model:    l.opts.Model,
		Clock:    now,
		Input:    l.input.String(),
		CursorOn: styles.CursorVisible(now),
		Scroll:   l.scroll,
	}
	switch {
	case l.Notice() != "":
		v.Status, v.StatusStyle = l.Notice(), styles.Notice
	case l.state == StateStreaming:
		v.Status = styles.Frame(spinner.Dot.Frames, spinner.Dot.FPS, now) + " thinking"
		v.StatusStyle = styles.Status
	default:
		v.Status, v.StatusStyle = HelpLine(l.opts.Keys.ShortHelp()), styles.Dim
	}
	return v
}
