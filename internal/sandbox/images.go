package sandbox

import (
	"context"
	"log/slog"
)

// EnsureImages warms the local image cache for the given identifiers. A pull
// failure is logged and skipped: it never aborts provisioning of the other
// images, and a later launch against a truly unavailable image still fails
// cleanly.
func (e *Engine) EnsureImages(ctx context.Context, images []string) {
	seen := make(map[string]bool, len(images))
	for _, img := range images {
		if img == "" || seen[img] {
			continue
		}
		seen[img] = true

		e.logger.Info("ensuring image is available", slog.String("image", img))
		if err := e.rt.PullImage(ctx, img); err != nil {
			e.logger.Warn("failed to pull image",
				slog.String("image", img),
				slog.Any("error", err),
			)
			continue
		}
		e.logger.Info("image available", slog.String("image", img))
	}
}
