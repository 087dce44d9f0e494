package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/quangdv/declutter/pkg/ai"
	"github.com/quangdv/declutter/pkg/vecstore"
)

// vectorDBSubDir is where the run pipeline persists the index under the
// output directory.
const vectorDBSubDir = "vectordb"

// openStore opens the vector store under the output directory, backed by a
// Gemini embedder. The caller must Close both.
func openStore(ctx context.Context) (*vecstore.Store, *ai.Client, error) {
	client, err := ai.NewClient(ctx, "")
	if err != nil {
		return nil, nil, err
	}

	store, err := vecstore.Open(vecstore.Config{
		Dir: filepath.Join(outputDir, vectorDBSubDir),
	}, client)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("open vector store: %w", err)
	}
	return store, client, nil
}
