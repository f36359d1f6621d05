package cliconfig

import "os"

// ApplyEnvConfig applies AXIOM_* environment variables to cfg, skipping
// flags in changed.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("file", os.Getenv("AXIOM_FILE"), &cfg.File)
	s.setString("mode", os.Getenv("AXIOM_MODE"), &cfg.Mode)
	s.setString("log-level", os.Getenv("AXIOM_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("metrics-addr", os.Getenv("AXIOM_METRICS_ADDR"), &cfg.MetricsAddr)

	if err := s.setDuration("debounce", os.Getenv("AXIOM_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", os.Getenv("AXIOM_SHUTDOWN_TIMEOUT"), &cfg.ShutdownTimeout); err != nil {
		return err
	}

	s.setBoolFromString("once", os.Getenv("AXIOM_ONCE"), &cfg.Once)
	return nil
}
