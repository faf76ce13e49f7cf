package main

import (
	"fmt"

	"github.com/fwojciec/sentiscope"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	docs := deps.Corpus.Documents()
	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents found. Use 'sentiscope crawl' to add some.")
		return nil
	}

	indexed := deps.Index.NextID()
	fmt.Fprintf(deps.Stdout, "Documents (%d total, %d indexed):\n\n", len(docs), min(indexed, len(docs)))
	for _, doc := range docs {
		fmt.Fprintf(deps.Stdout, "  [%d] %s\n       %s\n", doc.ID, displayTitle(doc), doc.URL)
		if c.Full {
			fmt.Fprintf(deps.Stdout, "\n%s\n\n", doc.Content)
		}
	}
	return nil
}

func displayTitle(doc *sentiscope.Document) string {
	if doc.Title == "" {
		return doc.URL
	}
	return doc.Title
}
