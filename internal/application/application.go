package application

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/eugenenazirov/simconfig/internal/coerce"
	"github.com/eugenenazirov/simconfig/internal/config"
	"github.com/eugenenazirov/simconfig/internal/console"
	"github.com/eugenenazirov/simconfig/internal/loader"
	"github.com/eugenenazirov/simconfig/internal/query"
	"github.com/eugenenazirov/simconfig/internal/schema"
	"github.com/eugenenazirov/simconfig/internal/storage"
)

// App encapsulates the configuration store and the collaborators that load
// and query it.
type App struct {
	cfg     config.Config
	storage *storage.MemoryStorage
	loader  *loader.Loader
	printer *console.Printer
	session *query.Session
	logger  *zap.Logger
	open    func(name string) (io.ReadCloser, error)
	report  loader.Report
}

// New initializes the application with all dependencies from the provided
// configuration. Interactive requests are read from in; all console output
// goes to out.
func New(cfg config.Config, logger *zap.Logger, in io.Reader, out io.Writer) (*App, error) {
	if err := coerce.CheckSchema(schema.Fields()); err != nil {
		return nil, fmt.Errorf("schema out of sync with coercer: %w", err)
	}

	store := storage.NewMemoryStorage()
	printer := console.NewPrinter(out, console.Format(cfg.DumpFormat))

	ld := loader.New(store, logger,
		loader.WithDiagnosticHandler(printer.Diagnostic),
		loader.WithLoadedHandler(func(source string) error {
			printer.Loaded(source)
			return printer.Dump(store.All())
		}),
	)

	session := query.NewSession(store, in, out, logger, query.WithRepeatKey(cfg.RepeatKey))

	return &App{
		cfg:     cfg,
		storage: store,
		loader:  ld,
		printer: printer,
		session: session,
		logger:  logger,
		open: func(name string) (io.ReadCloser, error) {
			return os.Open(name)
		},
	}, nil
}

// Run loads the base file, then the override file, then hands control to
// the interactive lookup loop until it finishes.
func (a *App) Run() error {
	for _, path := range []string{a.cfg.BaseFile, a.cfg.OverrideFile} {
		if err := a.loadFile(path); err != nil {
			return err
		}
	}

	a.logger.Info("configuration ready",
		zap.Int("applied", a.report.Applied),
		zap.Int("diagnostics", len(a.report.Diagnostics)),
		zap.Error(a.report.Err()),
	)

	answered, err := a.session.Run()
	if err != nil {
		return fmt.Errorf("interactive query: %w", err)
	}
	a.logger.Debug("interactive session finished", zap.Int("answered", answered))
	return nil
}

// Storage returns the configuration store.
func (a *App) Storage() *storage.MemoryStorage {
	return a.storage
}

// Report returns the accumulated load diagnostics.
func (a *App) Report() loader.Report {
	return a.report
}

func (a *App) loadFile(path string) error {
	f, err := a.open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			a.logger.Warn("configuration file not found", zap.String("path", path))
			a.printer.Missing(path)
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	report, err := a.loader.Load(loader.Source{Name: path, Reader: f})
	a.report.Applied += report.Applied
	a.report.Diagnostics = append(a.report.Diagnostics, report.Diagnostics...)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
