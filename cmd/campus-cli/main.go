package main

import (
	"context"
	"errors"
	"os"

	"icassist/cmd/campus-cli/commands"
	"icassist/lib/osutil"
	"icassist/lib/telemetry"
)

func main() {
	ctx, cancel := osutil.SignalContext(context.Background())
	defer cancel()

	t, err := telemetry.SetupFromEnv(ctx, "campus-cli")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		osutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
