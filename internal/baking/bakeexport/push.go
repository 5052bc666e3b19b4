package bakeexport

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/go-containerregistry/pkg/crane"
	v1 "github.com/google/go-containerregistry/pkg/v1"
)

// ToPushed pushes the image to every given reference.
func ToPushed(ctx context.Context, references []string, image v1.Image, opts ...crane.Option) error {
	opts = append(opts, crane.WithContext(ctx))
	verboseLogger := logr.FromContextOrDiscard(ctx).V(1)
	for _, ref := range references {
		verboseLogger.Info("pushing image", "reference", ref)
		if err := crane.Push(image, ref, opts...); err != nil {
			return fmt.Errorf("push: %w", err)
		}
	}

	return nil
}
