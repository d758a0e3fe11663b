// Package query implements the interactive single-field lookup loop.
package query

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/eugenenazirov/simconfig/internal/console"
	"github.com/eugenenazirov/simconfig/internal/schema"
	"github.com/eugenenazirov/simconfig/internal/storage"
)

// ErrorNotice is printed when the requested name matches no field.
const ErrorNotice = "Error"

// DefaultRepeatKey continues the session when entered at the repeat prompt.
const DefaultRepeatKey = "R"

// State is the position of a Session in its request/response cycle.
type State int

const (
	AwaitingFieldName State = iota
	AwaitingRepeatDecision
	Finished
)

func (s State) String() string {
	switch s {
	case AwaitingFieldName:
		return "awaiting field name"
	case AwaitingRepeatDecision:
		return "awaiting repeat decision"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures a Session.
type Option func(*Session)

// WithRepeatKey overrides the key that continues the session.
func WithRepeatKey(key string) Option {
	return func(s *Session) {
		if key != "" {
			s.repeatKey = key
		}
	}
}

// Session answers single-field lookups against a store until the user
// declines to repeat or input ends. It never mutates the store.
type Session struct {
	store     storage.Storage
	in        *bufio.Reader
	out       io.Writer
	logger    *zap.Logger
	repeatKey string
	state     State
}

// NewSession creates a Session reading requests from in and writing
// responses to out.
func NewSession(store storage.Storage, in io.Reader, out io.Writer, logger *zap.Logger, opts ...Option) *Session {
	s := &Session{
		store:     store,
		in:        bufio.NewReader(in),
		out:       out,
		logger:    logger,
		repeatKey: DefaultRepeatKey,
		state:     AwaitingFieldName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports the current state of the session.
func (s *Session) State() State {
	return s.state
}

// Run blocks on input until the session finishes and returns the number of
// lookups answered. End of input finishes the session without error.
func (s *Session) Run() (int, error) {
	answered := 0
	for s.state != Finished {
		switch s.state {
		case AwaitingFieldName:
			fmt.Fprintln(s.out, "\nInsert configuration id..")
			name, err := s.readLine()
			if err != nil {
				return answered, s.finish(err)
			}
			fmt.Fprintln(s.out, s.Answer(name))
			answered++
			s.state = AwaitingRepeatDecision

		case AwaitingRepeatDecision:
			fmt.Fprintf(s.out, "\nPress %s to repeat or any other key to quit..\n", s.repeatKey)
			reply, err := s.readLine()
			if err != nil {
				return answered, s.finish(err)
			}
			if s.isRepeat(reply) {
				s.state = AwaitingFieldName
			} else {
				s.state = Finished
			}
		}
	}
	return answered, nil
}

// Answer resolves name exactly against the canonical field names and
// formats the response line.
func (s *Session) Answer(name string) string {
	f, ok := schema.FieldByName(name)
	if !ok {
		s.logger.Debug("lookup of unknown field", zap.String("name", name))
		return fmt.Sprintf("%s : %s", name, ErrorNotice)
	}

	v, err := s.store.Get(f.Name)
	switch {
	case errors.Is(err, storage.ErrUnset):
		return fmt.Sprintf("%s : %s", f.Name, console.NotConfigured)
	case err != nil:
		s.logger.Warn("lookup failed", zap.String("field", f.Name), zap.Error(err))
		return fmt.Sprintf("%s : %s", f.Name, ErrorNotice)
	}
	return fmt.Sprintf("%s : %s", f.Name, console.Render(storage.Entry{Field: f, Value: v, Set: true}))
}

func (s *Session) isRepeat(reply string) bool {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(reply))
	return r != utf8.RuneError && strings.EqualFold(string(r), s.repeatKey)
}

func (s *Session) finish(err error) error {
	s.state = Finished
	if errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("read input: %w", err)
}

func (s *Session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
