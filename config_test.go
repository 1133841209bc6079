package sphorb

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig().WithDataDir("/tmp/tables")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig with DataDir set should validate, got %v", err)
	}
	if cfg.NFeatures != 500 || cfg.NLevels != MaxLevels || cfg.Barrier != 20 || cfg.ArcThreshold != 9 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name string
		cfg  *Config
	}{
		{"empty data dir", DefaultConfig()},
		{"zero features", DefaultConfig().WithDataDir("d").WithNFeatures(0)},
		{"zero levels", DefaultConfig().WithDataDir("d").WithNLevels(0)},
		{"barrier too high", DefaultConfig().WithDataDir("d").WithBarrier(300)},
		{"arc threshold too low", DefaultConfig().WithDataDir("d").WithArcThreshold(0)},
		{"arc threshold too high", DefaultConfig().WithDataDir("d").WithArcThreshold(19)},
	}
	for _, c := range cases {
		if err := c.cfg.Validate(); err == nil {
			t.Errorf("%s: expected Validate to fail", c.name)
		}
	}
}

func TestClampedLevels(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{0, MaxLevels},
		{-1, MaxLevels},
		{3, 3},
		{MaxLevels, MaxLevels},
		{MaxLevels + 5, MaxLevels},
	}
	for _, c := range cases {
		cfg := DefaultConfig().WithDataDir("d").WithNLevels(c.n)
		if got := cfg.clampedLevels(); got != c.want {
			t.Errorf("clampedLevels() with NLevels=%d = %d, want %d", c.n, got, c.want)
		}
	}
}
