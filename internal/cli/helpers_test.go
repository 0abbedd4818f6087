package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/jdmshowroom/internal/account"
	"github.com/dmitrijs2005/jdmshowroom/internal/config"
	"github.com/dmitrijs2005/jdmshowroom/internal/logging"
	"github.com/dmitrijs2005/jdmshowroom/internal/storage"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

// readerFromLines feeds each line followed by a newline; no lines means
// immediate EOF.
func readerFromLines(lines ...string) *bufio.Reader {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return bufio.NewReader(strings.NewReader(sb.String()))
}

// pipedInput makes GetPassword read lines from the reader, as it does when
// stdin is not a terminal.
func pipedInput(t *testing.T) {
	t.Helper()
	old := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = old })
}

type testApp struct {
	*App
	store *storage.MemoryStore
	out   *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	pipedInput(t)

	store := storage.NewMemoryStore()
	svc := account.NewService(store, account.WithClock(func() time.Time { return fixedNow }))

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ExportDir = t.TempDir()

	out := &bytes.Buffer{}
	return &testApp{
		App:   newApp(cfg, svc, logging.Discard(), readerFromLines(), out),
		store: store,
		out:   out,
	}
}

// input replaces the pending input and clears captured output.
func (a *testApp) input(lines ...string) {
	a.reader = readerFromLines(lines...)
	a.out.Reset()
}

func (a *testApp) signup(t *testing.T) {
	t.Helper()
	a.input("Jane Doe", "jane@x.com", "secret1", "secret1")
	if err := a.Signup(t.Context()); err != nil {
		t.Fatalf("signup: %v", err)
	}
}

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}
