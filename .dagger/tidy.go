package main

import (
	"context"
	"errors"
	"fmt"

	"dagger/disrello/internal/dagger"
)

// CheckGoModTidy fails when "go mod tidy" would change go.mod or go.sum.
//
// +check
func (d *Disrello) CheckGoModTidy(ctx context.Context) (string, error) {
	const script = `set -e
before=$(cat go.mod go.sum | sha256sum)
go mod tidy
after=$(cat go.mod go.sum | sha256sum)
if [ "$before" != "$after" ]; then
	echo "go.mod/go.sum changed after go mod tidy"
	exit 1
fi
echo ok`

	out, err := d.goContainer().
		WithExec([]string{"sh", "-c", script}).
		Stdout(ctx)

	var execErr *dagger.ExecError
	switch {
	case errors.As(err, &execErr):
		return "", fmt.Errorf("run 'go mod tidy' and commit the result:\n%s", execErr.Stdout)
	case err != nil:
		return "", fmt.Errorf("tidy check: %w", err)
	}
	return out, nil
}
