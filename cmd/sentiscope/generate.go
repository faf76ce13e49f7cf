package main

import (
	"fmt"

	"github.com/fwojciec/sentiscope"
)

// Run executes the generate command.
func (c *GenerateCmd) Run(deps *Dependencies) error {
	doc, err := deps.Corpus.Document(c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s. Use 'sentiscope docs' to see available documents.\n", sentiscope.ErrorMessage(err))
		return err
	}

	text, err := deps.Generator.Generate(deps.Ctx, doc.Content)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sentiscope.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, text)
	return nil
}
