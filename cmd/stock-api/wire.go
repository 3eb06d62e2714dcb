//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/Sternrassler/vnstock-cache/internal/app"
)

// InitializeApp builds the server graph via Wire.
// Caller must call the cleanup function when done.
func InitializeApp() (*app.App, func(), error) {
	wire.Build(app.ProviderSet)
	return nil, nil, nil
}
