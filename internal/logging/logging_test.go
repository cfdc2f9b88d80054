package logger

import (
	"bytes"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func newTestLogger(verbose, debug bool) (Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return Logger{Verbose: verbose, Debug: debug, Out: &out, Err: &errOut}, &out, &errOut
}

func TestLoggerLevels(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name        string
		verbose     bool
		debug       bool
		wantInfo    bool
		wantDebug   bool
		wantWarn    bool
		wantErrLine bool
	}{
		{"Quiet", false, false, false, false, false, false},
		{"Verbose", true, false, true, false, true, false},
		{"Debug", false, true, true, true, true, true},
		{"VerboseAndDebug", true, true, true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, out, errOut := newTestLogger(tt.verbose, tt.debug)

			l.Infof("loaded %d keys", 3)
			l.Debugf("key size %d", 32)
			l.Warnf("slow disk")
			l.Errorf("boom")

			if got := strings.Contains(out.String(), "[info] loaded 3 keys"); got != tt.wantInfo {
				t.Errorf("info shown = %v, expected %v (stdout: %q)", got, tt.wantInfo, out.String())
			}
			if got := strings.Contains(out.String(), "[debug] key size 32"); got != tt.wantDebug {
				t.Errorf("debug shown = %v, expected %v (stdout: %q)", got, tt.wantDebug, out.String())
			}
			if got := strings.Contains(errOut.String(), "[warn] slow disk"); got != tt.wantWarn {
				t.Errorf("warn shown = %v, expected %v (stderr: %q)", got, tt.wantWarn, errOut.String())
			}
			if got := strings.Contains(errOut.String(), "[error] boom"); got != tt.wantErrLine {
				t.Errorf("error shown = %v, expected %v (stderr: %q)", got, tt.wantErrLine, errOut.String())
			}
		})
	}
}

func TestWarnfAlways(t *testing.T) {
	color.NoColor = true

	l, out, errOut := newTestLogger(false, false)
	l.WarnfAlways("private key %s is readable by others", "keys/private.pem")

	if out.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "[warn] private key keys/private.pem is readable by others") {
		t.Errorf("expected warning on stderr, got %q", errOut.String())
	}
}

func TestErrorfAndReturn(t *testing.T) {
	color.NoColor = true

	l, _, errOut := newTestLogger(false, true)
	err := l.ErrorfAndReturn("failed to read key: %w", fs.ErrNotExist)

	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("returned error should wrap fs.ErrNotExist, got %v", err)
	}
	if !strings.Contains(errOut.String(), "[error] failed to read key") {
		t.Errorf("expected error line on stderr, got %q", errOut.String())
	}
}
