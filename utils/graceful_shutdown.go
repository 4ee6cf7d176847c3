package utils

import (
	"context"
	"fmt"

	"github.com/morler/frontpack/constants/lipgloss"
)

// GracefulShutdown waits for ctx to be cancelled, then runs cleanup and
// cancels the rest of the session.
func GracefulShutdown(ctx context.Context, cancel context.CancelFunc, cleanup func()) {
	<-ctx.Done()

	fmt.Println(lipgloss.Yellow.Render("\nShutting down..."))
	if cleanup != nil {
		cleanup()
	}
	cancel()
}
