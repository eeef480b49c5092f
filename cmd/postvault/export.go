package main

import (
	"fmt"

	"github.com/fwojciec/postvault"
	"github.com/fwojciec/postvault/export"
	"github.com/fwojciec/postvault/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	if c.QdrantAddr != "" && !c.Embeddings {
		fmt.Fprintln(deps.Stderr, "error: --qdrant-addr requires --embeddings")
		return postvault.Errorf(postvault.EINVALID, "--qdrant-addr requires --embeddings")
	}

	posts, err := deps.Posts.FindPosts(deps.Ctx, postvault.PostFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}

	exporter := deps.Exporter
	if exporter.Store == nil {
		exporter.Store = fs.NewFileStoreAt(c.Dir)
	}

	if c.Embeddings {
		fmt.Fprintf(deps.Stdout, "Embedding %d posts with %s (%s)\n", len(posts), postvault.Providers[exporter.Provider].Name, exporter.Model)
	}

	progress := func(p postvault.ExportProgress) {
		if p.Error != nil {
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", p.PostID, p.Error)
		}
	}

	sum, err := exporter.Export(deps.Ctx, posts, export.Options{Embeddings: c.Embeddings}, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d posts by %d authors to %s\n", sum.Posts, sum.Authors, c.Dir)
	if sum.Feed {
		fmt.Fprintf(deps.Stdout, "  %s\n", export.FeedFile)
	}
	if c.Embeddings {
		fmt.Fprintf(deps.Stdout, "  %s: %d embedded, %d failed\n", export.EmbeddingsFile, sum.Embedded, sum.EmbedFailed)
	}
	return nil
}
