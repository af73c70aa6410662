// Package diag is the diagnostics port of the analytics packages. Library
// code reports skipped records and recovered rule failures here instead of
// logging directly; binaries decide where the events go.
package diag

import (
	"fmt"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Event is a single diagnostic. Component names the reporting package or
// rule ("ledger", "streaks", "badges/bully").
type Event struct {
	Level     Level
	Component string
	Message   string
	Fields    map[string]any
}

type Sink interface {
	Emit(Event)
}

type nop struct{}

func (nop) Emit(Event) {}

// Nop discards every event. It is the default everywhere a Sink is optional.
var Nop Sink = nop{}

// Or returns s, or Nop when s is nil.
func Or(s Sink) Sink {
	if s == nil {
		return Nop
	}
	return s
}

// Func adapts a plain function to a Sink.
type Func func(Event)

func (f Func) Emit(e Event) { f(e) }

// Tee fans events out to every non-nil sink.
func Tee(sinks ...Sink) Sink {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return Func(func(e Event) {
		for _, s := range out {
			s.Emit(e)
		}
	})
}

// Skip reports a dropped input record.
func Skip(s Sink, component, reason string, fields map[string]any) {
	Or(s).Emit(Event{Level: LevelWarn, Component: component, Message: reason, Fields: fields})
}

// Recovered reports a panic caught inside an isolated computation.
func Recovered(s Sink, component string, r any) {
	Or(s).Emit(Event{
		Level:     LevelError,
		Component: component,
		Message:   "recovered from failure",
		Fields:    map[string]any{"panic": fmt.Sprint(r)},
	})
}

// Guard runs fn and converts a panic into a Recovered event. It reports
// whether fn completed.
func Guard(s Sink, component string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			Recovered(s, component, r)
			ok = false
		}
	}()
	fn()
	return true
}

// Recorder keeps every event in memory; used by tests and by the summary
// output to surface warnings.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many recorded events came from component.
func (r *Recorder) Count(component string) int {
	n := 0
	for _, e := range r.Events() {
		if e.Component == component {
			n++
		}
	}
	return n
}
