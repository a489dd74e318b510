// Package scanner drives one barcode scanning session: camera permission,
// a single in-flight lookup, and the terminal state the user acknowledges
// before the next scan.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dukerupert/pantrypal/internal/barcode"
	"github.com/dukerupert/pantrypal/internal/model"
)

type State int

const (
	Idle State = iota
	Scanning
	Resolving
	Resolved
	NotFound
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	case NotFound:
		return "not_found"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether s waits for an acknowledgment.
func (s State) Terminal() bool {
	return s == Resolved || s == NotFound || s == Errored
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	// ErrBusy means the scanner is not in a state that accepts the call. The
	// call had no effect.
	ErrBusy = errors.New("scanner busy")
	// ErrPermissionDenied means camera access was not granted.
	ErrPermissionDenied = errors.New("camera permission denied")
	// ErrClosed means the scanner was closed while a lookup was in flight
	// and the result was discarded.
	ErrClosed = errors.New("scanner closed")
)

// Permission grants or refuses camera access.
type Permission interface {
	Request(ctx context.Context) (bool, error)
}

type PermissionFunc func(ctx context.Context) (bool, error)

func (f PermissionFunc) Request(ctx context.Context) (bool, error) { return f(ctx) }

// Granted is a Permission that always allows access.
var Granted = PermissionFunc(func(context.Context) (bool, error) { return true, nil })

// Lookup resolves a barcode. It returns barcode.ErrNotFound for unknown
// products.
type Lookup interface {
	Lookup(ctx context.Context, code string) (model.Item, error)
}

// Sink receives each resolved item, typically a duplicate-aware insert into
// a list or pantry.
type Sink func(ctx context.Context, item model.Item) error

// Result is the outcome of one scan.
type Result struct {
	State State       `json:"state"`
	Code  string      `json:"code"`
	Item  *model.Item `json:"item,omitempty"`
	// Err is the lookup fault for Errored, or the sink's error for Resolved.
	Err error `json:"-"`
}

// Scanner is safe for concurrent use. Only one scan is resolved at a time;
// every other call made while a lookup is in flight returns ErrBusy.
type Scanner struct {
	lookup Lookup
	sink   Sink
	logger *slog.Logger

	mu    sync.Mutex
	state State
	gen   uint64
	last  Result
}

func New(lookup Lookup, sink Sink, logger *slog.Logger) *Scanner {
	return &Scanner{
		lookup: lookup,
		sink:   sink,
		logger: logger,
	}
}

func (s *Scanner) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Last returns the most recent terminal result.
func (s *Scanner) Last() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Open moves Idle to Scanning once perm grants camera access. A refusal or a
// permission error leaves the scanner Idle.
func (s *Scanner) Open(ctx context.Context, perm Permission) error {
	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return ErrBusy
	}
	gen := s.gen
	s.mu.Unlock()

	granted, err := perm.Request(ctx)
	if err != nil {
		s.logger.Warn("camera permission request failed", "error", err)
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	if !granted {
		return ErrPermissionDenied
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.state != Idle {
		return ErrBusy
	}
	s.state = Scanning
	return nil
}

// Scan resolves code. It is accepted only while Scanning; the state moves to
// Resolving for the lookup and ends in Resolved, NotFound or Errored. A panic
// in the lookup or sink also ends in Errored.
func (s *Scanner) Scan(ctx context.Context, code string) (Result, error) {
	s.mu.Lock()
	if s.state != Scanning {
		s.mu.Unlock()
		return Result{}, ErrBusy
	}
	s.state = Resolving
	gen := s.gen
	s.mu.Unlock()

	res := s.resolve(ctx, code)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return res, ErrClosed
	}
	s.state = res.State
	s.last = res
	s.logger.Info("scan resolved", "code", code, "state", res.State.String())
	return res, nil
}

func (s *Scanner) resolve(ctx context.Context, code string) (res Result) {
	res = Result{State: Errored, Code: code}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scan resolution panicked", "code", code, "panic", r)
			res = Result{State: Errored, Code: code, Err: fmt.Errorf("scan %s: panic: %v", code, r)}
		}
	}()

	item, err := s.lookup.Lookup(ctx, code)
	switch {
	case errors.Is(err, barcode.ErrNotFound), errors.Is(err, barcode.ErrInvalidCode):
		res.State = NotFound
		return res
	case err != nil:
		res.Err = err
		return res
	}

	res.State = Resolved
	res.Item = &item
	if s.sink != nil {
		res.Err = s.sink(ctx, item)
	}
	return res
}

// Acknowledge returns a terminal state to Idle. It reports false when there
// was nothing to acknowledge.
func (s *Scanner) Acknowledge() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Terminal() {
		return false
	}
	s.state = Idle
	return true
}

// Close returns the scanner to Idle from any state. A lookup still in flight
// finishes but its result is discarded.
func (s *Scanner) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = Idle
}
