package maincmd

import "github.com/caarlos0/env/v6"

// config holds the VM tuning knobs that the run command reads from the
// environment, mirroring the way caarlos0/env is used elsewhere in the
// stack for process configuration instead of hand-rolled flag parsing.
type config struct {
	MaxCallDepth int `env:"LUMA_MAX_CALL_DEPTH" envDefault:"220"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, err
	}
	return cfg, nil
}
