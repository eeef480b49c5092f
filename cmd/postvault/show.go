package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/postvault"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	post, err := deps.Posts.FindPostByID(deps.Ctx, c.ID)
	if postvault.ErrorCode(err) == postvault.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: post %q not found. Use 'postvault list' to see saved posts.\n", c.ID)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}

	if c.Markdown {
		fmt.Fprint(deps.Stdout, postvault.FormatPost(post))
		return nil
	}

	data, err := json.MarshalIndent(post, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, string(data))
	return nil
}
