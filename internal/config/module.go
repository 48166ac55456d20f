package config

import "go.uber.org/fx"

// Module provides the configuration loader to fx graphs.
var Module = fx.Provide(Load)
