package main

import (
	"fmt"

	"github.com/fwojciec/postvault"
	"github.com/fwojciec/postvault/capture"
)

const savedPostsURL = "https://www.linkedin.com/my-items/saved-posts/"

// Run executes the mark command.
func (c *MarkCmd) Run(deps *Dependencies) error {
	url := c.URL
	if url == "" {
		url = savedPostsURL
	}

	page, err := deps.Browser.Open(deps.Ctx, url)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}
	defer page.Close()

	// Cards already printed, so watch mode only reports new ones.
	seen := make(map[string]bool)
	report := func(res *capture.MarkResult) {
		fresh := 0
		for _, m := range res.Marks {
			key := m.ID + " " + m.URL
			if seen[key] {
				continue
			}
			seen[key] = true
			fresh++

			status := "new"
			if m.Saved {
				status = "saved"
			}
			fmt.Fprintf(deps.Stdout, "%-5s  %s  %s\n", status, m.ID, m.URL)
		}
		if fresh > 0 {
			fmt.Fprintf(deps.Stdout, "%d saved, %d not saved\n", res.Saved, res.Unsaved)
		}
	}

	if c.Watch {
		fmt.Fprintln(deps.Stderr, "Watching for more posts, press Ctrl+C to stop")
		if err := deps.Marker.Watch(deps.Ctx, page, report); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
			return err
		}
		return nil
	}

	res, err := deps.Marker.Mark(deps.Ctx, page)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}
	if len(res.Marks) == 0 {
		fmt.Fprintln(deps.Stdout, "No posts found on the page. Are you logged in? Use --profile with your Chrome profile.")
		return nil
	}
	report(res)
	return nil
}
