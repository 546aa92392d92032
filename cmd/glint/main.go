// glint - CPU ray tracer for spheres and planes.
// Renders built-in or glTF scenes to PNG, animates camera drift across
// frames, and previews renders live in the terminal.
//
// Preview controls:
//
//	Click       - Pick the object under the cursor
//	Arrows      - Move the picked object (x/y)
//	PgUp/PgDn   - Move the picked object (z)
//	+/-         - Dolly the camera
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}
