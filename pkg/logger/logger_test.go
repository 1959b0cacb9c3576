package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_StampsServiceName(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	log := Init(Options{Level: "info", Output: &buf})
	log.Info().Msg("boot")

	if !strings.Contains(buf.String(), `"service":"charlieverse-api"`) {
		t.Errorf("log line missing service field: %s", buf.String())
	}
}

func TestInit_IsSingleton(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first bytes.Buffer
	Init(Options{Level: "debug", Output: &first})

	// A second Init must not rebuild the logger.
	var second bytes.Buffer
	log := Init(Options{Level: "error", Output: &second})
	log.Info().Msg("routed")

	if second.Len() != 0 {
		t.Error("second Init must be a no-op")
	}
	if !strings.Contains(first.String(), "routed") {
		t.Errorf("log line not routed to the first writer: %s", first.String())
	}
}

func TestParseLevel_Defaults(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q): got %v, want %v", in, got, want)
		}
	}
}
