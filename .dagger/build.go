package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dagger/disrello/internal/dagger"
)

// Build returns a directory holding the disrello binary for the build
// container's platform. cgo is required by the sqlite driver, so builds are
// native rather than cross compiled.
func (d *Disrello) Build(
	ctx context.Context,

	// Linker flags for go build
	// +optional
	// +default="-s -w"
	ldflags string,
) *dagger.Directory {
	build := d.goContainer().
		WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", "/out/", "./cli/disrello"})

	return dag.Directory().WithDirectory("/", build.Directory("/out"))
}

// BuildRelease compiles a versioned binary with embedded version info
func (d *Disrello) BuildRelease(
	ctx context.Context,

	// Version string of build
	version string,

	// Git commit SHA of build
	commit string,
) *dagger.Directory {
	buildtime := time.Now().UTC().Format(time.RFC3339)

	ldflags := []string{
		"-s",
		"-w",
		fmt.Sprintf("-X 'github.com/papercomputeco/disrello/pkg/utils.Version=%s'", version),
		fmt.Sprintf("-X 'github.com/papercomputeco/disrello/pkg/utils.Sha=%s'", commit),
		fmt.Sprintf("-X 'github.com/papercomputeco/disrello/pkg/utils.Buildtime=%s'", buildtime),
	}

	return d.Build(ctx, strings.Join(ldflags, " "))
}
