package app

import (
	"flag"
	"testing"
)

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("ffm-view", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-in", "site.txt", "-run", "0", "-range", "25.5", "-hud", "0"}); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cfg.In != "site.txt" || cfg.Run != 0 || cfg.Range != 25.5 || cfg.HUDWidth != 0 {
		t.Fatalf("expected flags to be applied, got %+v", *cfg)
	}
	if cfg.Scale != 3 || cfg.SPS != 4 || cfg.Width != 320 {
		t.Fatalf("expected untouched defaults, got %+v", *cfg)
	}
}
