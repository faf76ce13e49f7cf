package main

import "fmt"

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	if deps.Index.NextID() >= deps.Corpus.Len() {
		fmt.Fprintln(deps.Stdout, "Index is up to date.")
		return nil
	}
	return indexPending(deps)
}
