package main

import (
	"fmt"

	"github.com/fwojciec/postvault"
)

// Run executes the clear command.
func (c *ClearCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return postvault.Errorf(postvault.EINVALID, "use --force to confirm deletion")
	}

	n, err := deps.Posts.CountPosts(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}

	if err := deps.Posts.ClearPosts(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Cleared %d posts\n", n)
	return nil
}
