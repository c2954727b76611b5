package lsp

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerURI DocumentURI = "file:///tmp/main.st"

func latest(t *testing.T, h *Handler) *Document {
	t.Helper()
	doc := h.waitForFile(context.Background(), handlerURI)
	require.NotNil(t, doc)
	return doc
}

func TestHandlerResubmittedVersion(t *testing.T) {
	h := NewHandler(context.Background(), "test")

	for i := range 20 {
		h.updateFile(handlerURI, 1, fmt.Sprintf("Eval %d.\n", i))
		h.updateFile(handlerURI, 1, fmt.Sprintf("Eval %d.\n", i+100))

		doc := latest(t, h)
		assert.Equal(t, 1, doc.Version)
		require.Len(t, doc.Diagnostics, 1)
		assert.Equal(t, fmt.Sprint(i+100), doc.Diagnostics[0].Message)
	}
}

func TestHandlerIgnoresOlderVersions(t *testing.T) {
	h := NewHandler(context.Background(), "test")

	h.updateFile(handlerURI, 3, "Eval 3.\n")
	h.updateFile(handlerURI, 2, "Eval 2.\n")

	doc := latest(t, h)
	assert.Equal(t, 3, doc.Version)
	assert.Equal(t, "Eval 3.\n", doc.Text)
}

func TestHandlerCloseWhileAnalyzing(t *testing.T) {
	h := NewHandler(context.Background(), "test")

	h.updateFile(handlerURI, 1, "Eval 1.\n")
	h.closeFile(handlerURI)
	assert.Nil(t, h.waitForFile(context.Background(), handlerURI))

	h.updateFile(handlerURI, 1, "Eval 5.\n")
	doc := latest(t, h)
	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, "5", doc.Diagnostics[0].Message)
}
