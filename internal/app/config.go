package app

import "flag"

// Config represents the command-line parameters of the viewer.
type Config struct {
	In       string
	Scale    int
	TPS      int
	SPS      int
	Width    int
	Range    float64
	Run      int
	HUDWidth int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 3, TPS: 60, SPS: 4, Width: 320, Range: 60, Run: -1, HUDWidth: 300}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.In, "in", c.In, "scenario file to replay")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.SPS, "sps", c.SPS, "model time steps shown per second")
	fs.IntVar(&c.Width, "width", c.Width, "raster width in cells")
	fs.Float64Var(&c.Range, "range", c.Range, "downwind distance shown (m)")
	fs.IntVar(&c.Run, "run", c.Run, "ignition run to replay, negative for the last")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "results panel width in pixels, 0 to hide")
}
