// Disrello CI
//
// Package main runs the disrello tests and builds in containers, locally and
// in CI.
package main

import (
	"context"

	"dagger/disrello/internal/dagger"
)

// Disrello is the CI module for the disrello bot
type Disrello struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Disrello CI module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".disrello", "build", "tmp"]
	source *dagger.Directory,
) *Disrello {
	return &Disrello{
		Source: source,
	}
}

// goContainer returns a Debian Bookworm Go container with gcc and
// libsqlite3-dev for the cgo sqlite driver, and the project source mounted.
func (d *Disrello) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-bookworm").
		WithExec([]string{"apt-get", "update"}).
		WithExec([]string{"apt-get", "install", "-y", "gcc", "libsqlite3-dev"}).
		WithEnvVariable("CGO_ENABLED", "1").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", d.Source)
}

// Test runs the unit tests with the race detector.
func (d *Disrello) Test(ctx context.Context) (string, error) {
	return d.goContainer().
		WithExec([]string{"go", "test", "-race", "./..."}).
		Stdout(ctx)
}

// Vet runs go vet over the module.
func (d *Disrello) Vet(ctx context.Context) (string, error) {
	return d.goContainer().
		WithExec([]string{"go", "vet", "./..."}).
		Stdout(ctx)
}
