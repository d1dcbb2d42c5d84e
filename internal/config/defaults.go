package config

const (
	defaultTotalOutputs        = 53234
	defaultMaxVariantsPerClean = 10
	defaultSeed                = 42
	defaultSampleRate          = 16000
	defaultShardSize           = 1000
	defaultWorkers             = "1"
	defaultDRRWindowMS         = 2.5
	defaultLogLevel            = "info"
	defaultLogFormat           = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Build: Build{
			TotalOutputs:        defaultTotalOutputs,
			MaxVariantsPerClean: defaultMaxVariantsPerClean,
			Seed:                defaultSeed,
			SampleRate:          defaultSampleRate,
			ShardSize:           defaultShardSize,
			Workers:             defaultWorkers,
			RIRMetricsCSV:       true,
		},
		Metrics: Metrics{
			DRRWindowMS: defaultDRRWindowMS,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
