// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/glaze/internal/core/domain"
)

// ShaderCompiler turns generated shader source into a compiled shader.
//
//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type ShaderCompiler interface {
	// Compile compiles every stage of info.
	// On rejection the returned error carries the compiler log in its message.
	Compile(ctx context.Context, info *domain.ShaderCreateInfo) (*domain.Shader, error)
}
