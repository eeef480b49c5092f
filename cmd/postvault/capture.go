package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/postvault"
	"github.com/fwojciec/postvault/capture"
	"github.com/fwojciec/postvault/goquery"
)

// Run executes the capture command.
func (c *CaptureCmd) Run(deps *Dependencies) error {
	page, err := deps.Browser.Open(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}
	defer page.Close()

	if !c.NoComments {
		fmt.Fprintln(deps.Stdout, "Expanding comments...")
	}

	res, err := deps.Capturer.Capture(deps.Ctx, page, capture.Options{
		IncludeComments: !c.NoComments,
		Snapshot:        c.Snapshot,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}

	printResult(deps.Stdout, res)
	return nil
}

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	f, err := os.Open(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}

	res, err := deps.Capturer.Capture(deps.Ctx, doc, capture.Options{
		IncludeComments: !c.NoComments,
		Snapshot:        c.Snapshot,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}

	printResult(deps.Stdout, res)
	return nil
}

func printResult(w io.Writer, res *capture.Result) {
	if res.Expanded > 0 {
		fmt.Fprintf(w, "Expanded %d comment sections\n", res.Expanded)
	}
	if res.Duplicate {
		fmt.Fprintf(w, "Already saved! (%d posts)\n", res.PostCount)
		return
	}

	name := res.Post.Author.Name
	if name == "" {
		name = "Post"
	}
	fmt.Fprintf(w, "Saved: %s (%s, %d comments, %d posts)\n", name, res.Post.ID, len(res.Post.Comments), res.PostCount)
}
