package ports

import (
	"context"

	"github.com/emiliopalmerini/orpheus/internal/features"
	"github.com/emiliopalmerini/orpheus/internal/model"
)

// ArtifactStorage persists the intermediate tables and the fitted model
// produced by a training pass.
type ArtifactStorage interface {
	StoreTable(ctx context.Context, name string, table features.Table) (storedPath string, err error)
	StoreModel(ctx context.Context, schema *features.Schema, m *model.Model) (storedPath string, err error)
}
