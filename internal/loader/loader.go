package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/simconfig/internal/coerce"
	"github.com/eugenenazirov/simconfig/internal/lineparse"
	"github.com/eugenenazirov/simconfig/internal/storage"
)

const byteOrderMark = "\ufeff"

// Source is one named, ordered sequence of configuration lines.
type Source struct {
	Name   string
	Reader io.Reader
}

// Option configures the behaviour of New.
type Option func(*Loader)

// WithDiagnosticHandler registers fn to receive each diagnostic as soon as it
// is produced.
func WithDiagnosticHandler(fn func(Diagnostic)) Option {
	return func(l *Loader) {
		l.onDiagnostic = fn
	}
}

// WithLoadedHandler registers fn to run after each source is fully consumed.
// An error from fn stops the load.
func WithLoadedHandler(fn func(source string) error) Option {
	return func(l *Loader) {
		l.onLoaded = fn
	}
}

// Loader feeds configuration lines into a storage.Storage.
type Loader struct {
	store        storage.Storage
	logger       *zap.Logger
	onDiagnostic func(Diagnostic)
	onLoaded     func(string) error
}

// New constructs a Loader writing into store.
func New(store storage.Storage, logger *zap.Logger, opts ...Option) *Loader {
	l := &Loader{
		store:        store,
		logger:       logger,
		onDiagnostic: func(Diagnostic) {},
		onLoaded:     func(string) error { return nil },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load applies every source in order. Diagnostics never stop the load; the
// returned error is reserved for conditions that must abort it, such as a
// failed read.
func (l *Loader) Load(sources ...Source) (Report, error) {
	var report Report
	for _, src := range sources {
		if err := l.loadSource(src, &report); err != nil {
			return report, err
		}
		l.logger.Info("configuration source loaded", zap.String("source", src.Name))
		if err := l.onLoaded(src.Name); err != nil {
			return report, fmt.Errorf("after loading %s: %w", src.Name, err)
		}
	}
	return report, nil
}

func (l *Loader) loadSource(src Source, report *Report) error {
	r := bufio.NewReader(src.Reader)

	lineNo := 0
	for {
		line, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("read %s: %w", src.Name, readErr)
		}
		if readErr != nil && line == "" {
			return nil
		}

		lineNo++
		line = strings.TrimRight(line, "\r\n")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, byteOrderMark)
		}
		if err := l.applyLine(src.Name, lineNo, line, report); err != nil {
			return err
		}
		if readErr != nil {
			return nil
		}
	}
}

func (l *Loader) applyLine(source string, lineNo int, line string, report *Report) error {
	entry, ok := lineparse.Parse(line)
	if !ok {
		return nil
	}

	diag, err := l.apply(entry)
	if err != nil {
		return fmt.Errorf("%s:%d: %w", source, lineNo, err)
	}
	if diag == nil {
		report.Applied++
		return nil
	}

	diag.Source = source
	diag.Line = lineNo
	report.Diagnostics = append(report.Diagnostics, *diag)
	l.logger.Warn("configuration line rejected",
		zap.String("source", diag.Source),
		zap.Int("line", diag.Line),
		zap.Stringer("kind", diag.Kind),
		zap.String("field", diag.Field),
		zap.String("text", diag.Text),
		zap.Error(diag.Err),
	)
	l.onDiagnostic(*diag)
	return nil
}

// apply returns a diagnostic for recoverable problems and an error for
// conditions that must abort the load.
func (l *Loader) apply(entry lineparse.Entry) (*Diagnostic, error) {
	field, err := l.store.Lookup(entry.Name)
	if err != nil {
		if errors.Is(err, storage.ErrUnknownField) {
			return &Diagnostic{Kind: UnknownField, Field: entry.Name, Text: entry.Value, Err: err}, nil
		}
		return nil, err
	}

	value, err := coerce.Value(field, entry.Value)
	if err != nil {
		var mismatch *coerce.TypeMismatchError
		if errors.As(err, &mismatch) {
			return &Diagnostic{Kind: TypeMismatch, Field: field.Name, Text: entry.Value, Err: err}, nil
		}
		return nil, err
	}

	if _, err := l.store.Set(field.Name, value); err != nil {
		if errors.Is(err, storage.ErrUnknownField) {
			return &Diagnostic{Kind: UnknownField, Field: entry.Name, Text: entry.Value, Err: err}, nil
		}
		return nil, err
	}
	l.logger.Debug("configuration value applied", zap.String("field", field.Name), zap.String("text", entry.Value))
	return nil, nil
}
