package main

import (
	"github.com/123Haben/parking-place/internal/config"
)

// loadConfig loads --config, or the config file found in the working
// directory, or defaults when there is none.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.Find(".")
	}
	return config.Load(path)
}
