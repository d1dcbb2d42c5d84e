package irsynth

import (
	"fmt"
	"math/rand"
)

// PoolConfig describes a set of synthetic RIRs with reverberation times
// spread over [MinRT60S, MaxRT60S].
type PoolConfig struct {
	Base     Config
	Count    int
	MinRT60S float64
	MaxRT60S float64
	Prefix   string
}

// Named is one generated RIR of a pool.
type Named struct {
	Name    string
	RT60S   float64
	Samples []float32
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Base:     DefaultConfig(),
		Count:    16,
		MinRT60S: 0.2,
		MaxRT60S: 1.2,
		Prefix:   "synth_rir",
	}
}

func (p *PoolConfig) Validate() error {
	if p.Count < 1 {
		return fmt.Errorf("count must be >= 1")
	}
	if p.MinRT60S <= 0 || p.MaxRT60S < p.MinRT60S {
		return fmt.Errorf("rt60 range must satisfy 0 < min <= max")
	}
	if p.Prefix == "" {
		return fmt.Errorf("prefix must not be empty")
	}
	base := p.Base
	base.RT60S = p.MinRT60S
	return base.Validate()
}

// GeneratePool synthesizes Count RIRs. RT60 values are evenly spaced over
// the configured range with a small seeded jitter; each RIR gets its own
// seed derived from Base.Seed, so the pool is reproducible.
func GeneratePool(p PoolConfig) ([]Named, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(p.Base.Seed))
	out := make([]Named, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		pos := 0.5
		if p.Count > 1 {
			pos = float64(i) / float64(p.Count-1)
		}
		jitter := (rng.Float64() - 0.5) * 0.1 / float64(p.Count)
		cfg := p.Base
		cfg.RT60S = lerp(p.MinRT60S, p.MaxRT60S, pos+jitter)
		cfg.Seed = p.Base.Seed + int64(i+1)*7919

		h, err := Generate(cfg)
		if err != nil {
			return nil, fmt.Errorf("generate %s_%04d: %w", p.Prefix, i, err)
		}
		out = append(out, Named{
			Name:    fmt.Sprintf("%s_%04d", p.Prefix, i),
			RT60S:   cfg.RT60S,
			Samples: h,
		})
	}
	return out, nil
}
