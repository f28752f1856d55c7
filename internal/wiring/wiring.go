// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/glaze/internal/adapters/config"
	_ "go.trai.ch/glaze/internal/adapters/digest"
	_ "go.trai.ch/glaze/internal/adapters/fs"
	_ "go.trai.ch/glaze/internal/adapters/logger"
	_ "go.trai.ch/glaze/internal/adapters/naga"
	_ "go.trai.ch/glaze/internal/adapters/telemetry"
	_ "go.trai.ch/glaze/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/glaze/internal/app"
	_ "go.trai.ch/glaze/internal/engine/codegen"
)
