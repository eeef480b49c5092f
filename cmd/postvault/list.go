package main

import (
	"fmt"

	"github.com/fwojciec/postvault"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := postvault.PostFilter{Offset: c.Offset, Limit: c.Limit}
	if c.Author != "" {
		filter.Author = &c.Author
	}

	posts, err := deps.Posts.FindPosts(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}

	if len(posts) == 0 {
		fmt.Fprintln(deps.Stdout, "No posts saved. Use 'postvault capture <url>' to save one.")
		return nil
	}

	for _, p := range posts {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", p.ID, p.CapturedAt.UTC().Format("2006-01-02"), authorName(p), postvault.Title(p))
	}

	return nil
}

func authorName(p *postvault.Post) string {
	if p.Author.Name == "" {
		return "Unknown"
	}
	return p.Author.Name
}
