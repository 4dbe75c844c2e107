package error

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func capture(t *testing.T) (*bytes.Buffer, *int) {
	t.Helper()
	buf := &bytes.Buffer{}
	code := -1

	oldLogger, oldExit := logger, exit
	t.Cleanup(func() { logger, exit = oldLogger, oldExit })

	SetLogger(log.New(buf))
	exit = func(c int) { code = c }
	return buf, &code
}

func TestExternal(t *testing.T) {
	buf, code := capture(t)
	External("The file %s does not exist.", "run.toml")

	if *code != 1 {
		t.Errorf("Expected exit code 1, got %d.", *code)
	}
	if !strings.Contains(buf.String(), "The file run.toml does not exist.") {
		t.Errorf("Expected the message to be logged, got '%s'.", buf.String())
	}
}

func TestInternal(t *testing.T) {
	buf, code := capture(t)
	Internal("index %d out of range", 7)

	if *code != 1 {
		t.Errorf("Expected exit code 1, got %d.", *code)
	}
	out := buf.String()
	if !strings.Contains(out, "index 7 out of range") {
		t.Errorf("Expected the message to be logged, got '%s'.", out)
	}
	if !strings.Contains(out, "stack") {
		t.Errorf("Expected a stack trace to be logged, got '%s'.", out)
	}
}
