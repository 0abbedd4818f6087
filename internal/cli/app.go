package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/jdmshowroom/internal/account"
	"github.com/dmitrijs2005/jdmshowroom/internal/config"
	"github.com/dmitrijs2005/jdmshowroom/internal/cryptox"
	"github.com/dmitrijs2005/jdmshowroom/internal/logging"
	"github.com/dmitrijs2005/jdmshowroom/internal/storage"
)

type App struct {
	config *config.Config
	svc    *account.Service
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer
	closer io.Closer
}

// NewApp opens the configured store and builds the account service on top
// of it. The caller must Close the App.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, err := logging.New(os.Stderr, c.LogLevel)
	if err != nil {
		return nil, err
	}

	scheme, err := cryptox.ParseScheme(c.PasswordScheme)
	if err != nil {
		return nil, err
	}

	store, closer, err := openStore(ctx, c)
	if err != nil {
		log.Error(ctx, "error opening storage", "driver", c.StorageDriver, "error", err)
		return nil, err
	}
	log.Debug(ctx, "storage opened", "driver", c.StorageDriver)

	svc := account.NewService(store,
		account.WithLogger(log),
		account.WithPasswordScheme(scheme),
	)

	a := newApp(c, svc, log, bufio.NewReader(os.Stdin), os.Stdout)
	a.closer = closer
	return a, nil
}

func newApp(c *config.Config, svc *account.Service, log logging.Logger, r *bufio.Reader, w io.Writer) *App {
	return &App{config: c, svc: svc, log: log, reader: r, out: w}
}

func openStore(ctx context.Context, c *config.Config) (storage.Transactor, io.Closer, error) {
	switch c.StorageDriver {
	case config.DriverMemory:
		return storage.NewMemoryStore(), nil, nil
	case config.DriverSQLite:
		st, err := storage.Open(ctx, storage.DialectSQLite, c.StorageDSN)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	case config.DriverPostgres:
		st, err := storage.Open(ctx, storage.DialectPostgres, c.StorageDSN)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", c.StorageDriver)
	}
}

// Run starts the REPL on stdin and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to JDM Classic (type 'help' for commands)")
	runREPL(ctx, a, func() string { return a.status(ctx) }, a.reader)
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	ok, err := a.svc.IsLoggedIn(ctx)
	return err == nil && ok
}

func (a *App) status(ctx context.Context) string {
	u, err := a.svc.CurrentUser(ctx)
	if err != nil || u == nil || !a.isLoggedIn(ctx) {
		return "(guest)"
	}
	return fmt.Sprintf("(%s)", u.Email)
}

// fail prints the notification for err and returns it.
func (a *App) fail(err error) error {
	fmt.Fprintln(a.out, "Error: "+account.Message(err))
	return err
}

func (a *App) ok(format string, args ...any) error {
	fmt.Fprintf(a.out, format+"\n", args...)
	return nil
}
