package config

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// ParseWorkers parses an integer >= 1 or "auto". Auto is reported as 0.
func ParseWorkers(raw string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return 0, fmt.Errorf("empty value (use integer >= 1 or 'auto')")
	}
	if v == "auto" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%q (use integer >= 1 or 'auto')", raw)
	}
	if n < 1 {
		return 0, fmt.Errorf("%d (must be >= 1 or 'auto')", n)
	}
	return n, nil
}

// WorkerCount resolves build.workers to a concrete pool size.
func (c *Config) WorkerCount() int {
	n, err := ParseWorkers(c.Build.Workers)
	if err != nil || n == 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n < 1 {
		n = 1
	}
	return n
}
