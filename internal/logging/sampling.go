package logging

import (
	"go.uber.org/zap/zapcore"
)

// newSampledCore samples each level below error on its own budget.
// Levels without a budget pass through; error and above are never sampled.
func newSampledCore(core zapcore.Core, cfg SamplingConfig) zapcore.Core {
	if !cfg.Enabled {
		return core
	}

	cores := []zapcore.Core{
		&levelBandCore{Core: core, min: zapcore.ErrorLevel, max: zapcore.FatalLevel},
	}
	for lvl := TraceLevel; lvl <= zapcore.WarnLevel; lvl++ {
		var band zapcore.Core = &levelBandCore{Core: core, min: lvl, max: lvl}
		if s, ok := cfg.Levels[lvl]; ok {
			band = zapcore.NewSamplerWithOptions(band, cfg.Tick.Duration(), s.Initial, s.Thereafter)
		}
		cores = append(cores, band)
	}
	return zapcore.NewTee(cores...)
}

// levelBandCore passes only entries within [min, max].
type levelBandCore struct {
	zapcore.Core
	min, max zapcore.Level
}

func (c *levelBandCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.min && lvl <= c.max && c.Core.Enabled(lvl)
}

func (c *levelBandCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c *levelBandCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelBandCore{Core: c.Core.With(fields), min: c.min, max: c.max}
}
