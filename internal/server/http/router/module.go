package router

import "go.uber.org/fx"

// Module provides the configured HTTP router.
var Module = fx.Provide(Setup)
