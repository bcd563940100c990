package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetLogLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"INFO":  logrus.InfoLevel,
		"":      logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
	}
	for in, want := range cases {
		if err := SetLogLevel(in); err != nil {
			t.Fatalf("SetLogLevel(%q): %v", in, err)
		}
		if Log.GetLevel() != want {
			t.Errorf("SetLogLevel(%q): expected %v, got %v", in, want, Log.GetLevel())
		}
	}

	if err := SetLogLevel("loud"); err == nil {
		t.Error("Expected an error for unknown level, got nil")
	}
}
