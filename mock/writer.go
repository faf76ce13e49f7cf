package mock

import (
	"context"

	"github.com/fwojciec/sentiscope"
)

var _ sentiscope.DocumentWriter = (*DocumentWriter)(nil)

// DocumentWriter is a mock implementation of sentiscope.DocumentWriter.
type DocumentWriter struct {
	WriteDocumentFn func(ctx context.Context, doc *sentiscope.Document) error
}

func (w *DocumentWriter) WriteDocument(ctx context.Context, doc *sentiscope.Document) error {
	return w.WriteDocumentFn(ctx, doc)
}
