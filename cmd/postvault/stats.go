package main

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/fwojciec/postvault"
)

// topAuthors is the number of authors listed by stats.
const topAuthors = 5

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	if c.Tokens && deps.Tokens == nil {
		fmt.Fprintln(deps.Stderr, "error: token counting is not available")
		return postvault.Errorf(postvault.EINTERNAL, "token counter not configured")
	}

	posts, err := deps.Posts.FindPosts(deps.Ctx, postvault.PostFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}

	var comments, media int
	byAuthor := make(map[string]int)
	for _, p := range posts {
		comments += len(p.Comments)
		media += len(p.Media)
		byAuthor[authorName(p)]++
	}

	fmt.Fprintf(deps.Stdout, "Posts:    %d\n", len(posts))
	fmt.Fprintf(deps.Stdout, "Authors:  %d\n", len(byAuthor))
	fmt.Fprintf(deps.Stdout, "Comments: %d\n", comments)
	fmt.Fprintf(deps.Stdout, "Media:    %d\n", media)

	if c.Tokens {
		total := 0
		for _, p := range posts {
			n, err := deps.Tokens.CountTokens(deps.Ctx, postvault.FormatPost(p))
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
				return err
			}
			total += n
		}
		fmt.Fprintf(deps.Stdout, "Tokens:   %s\n", formatTokens(total))
	}

	if len(byAuthor) == 0 {
		return nil
	}

	type authorCount struct {
		name  string
		posts int
	}
	counts := make([]authorCount, 0, len(byAuthor))
	for name, n := range byAuthor {
		counts = append(counts, authorCount{name, n})
	}
	slices.SortFunc(counts, func(a, b authorCount) int {
		if n := cmp.Compare(b.posts, a.posts); n != 0 {
			return n
		}
		return cmp.Compare(a.name, b.name)
	})
	if len(counts) > topAuthors {
		counts = counts[:topAuthors]
	}

	fmt.Fprintln(deps.Stdout, "\nTop authors:")
	for _, a := range counts {
		fmt.Fprintf(deps.Stdout, "  %3d  %s\n", a.posts, a.name)
	}
	return nil
}

// formatTokens formats token count in human-readable form.
func formatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}
