package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	cases := []struct {
		name      string
		cfg       Config
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{name: "default is quiet", cfg: Config{}, wantWarn: true},
		{name: "verbose", cfg: Config{Verbose: true}, wantDebug: true, wantInfo: true, wantWarn: true},
		{name: "explicit info", cfg: Config{Level: "info"}, wantInfo: true, wantWarn: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := New(tc.cfg)
			if err != nil {
				t.Fatalf("new logger: %v", err)
			}
			core := logger.Core()
			if got := core.Enabled(zap.DebugLevel); got != tc.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tc.wantDebug)
			}
			if got := core.Enabled(zap.InfoLevel); got != tc.wantInfo {
				t.Errorf("info enabled = %v, want %v", got, tc.wantInfo)
			}
			if got := core.Enabled(zap.WarnLevel); got != tc.wantWarn {
				t.Errorf("warn enabled = %v, want %v", got, tc.wantWarn)
			}
		})
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
