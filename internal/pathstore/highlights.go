package pathstore

import (
	"context"
	"fmt"
)

const documentsPrefix = "texthl/documents"

// HighlightsKey is where the descriptor string of one document is kept.
func HighlightsKey(docKey string) string {
	return documentsPrefix + "/" + docKey + "/highlights"
}

// SaveHighlights stores a serialized descriptor string for a document,
// replacing any earlier one.
func (c *Client) SaveHighlights(ctx context.Context, docKey, descriptors string) error {
	key := HighlightsKey(docKey)
	err := withRetry(ctx, func() error {
		return c.PutNode(ctx, key, NodeRequest{
			Value:     descriptors,
			MergeMode: "replace",
			Source:    "texthl",
		})
	})
	if err != nil {
		return fmt.Errorf("save highlights: %w", err)
	}
	return nil
}

// LoadHighlights returns the stored descriptor string of a document. ok is
// false when nothing was saved.
func (c *Client) LoadHighlights(ctx context.Context, docKey string) (descriptors string, ok bool, err error) {
	var node *NodeResponse
	err = withRetry(ctx, func() error {
		var err error
		node, err = c.GetNode(ctx, HighlightsKey(docKey))
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("load highlights: %w", err)
	}
	if node == nil {
		return "", false, nil
	}
	s, isString := node.Value.(string)
	if !isString {
		return "", false, fmt.Errorf("load highlights: value at %s is %T, want string", node.Key, node.Value)
	}
	return s, true, nil
}

// DeleteHighlights removes the stored descriptors of a document.
func (c *Client) DeleteHighlights(ctx context.Context, docKey string) error {
	err := withRetry(ctx, func() error {
		return c.DeleteNode(ctx, HighlightsKey(docKey), false)
	})
	if err != nil {
		return fmt.Errorf("delete highlights: %w", err)
	}
	return nil
}

// ListDocuments returns the keys of documents with stored highlights.
func (c *Client) ListDocuments(ctx context.Context, limit int) ([]string, error) {
	var nodes []ListChildrenResponse
	err := withRetry(ctx, func() error {
		var err error
		nodes, err = c.ListChildren(ctx, documentsPrefix, limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	keys := make([]string, 0, len(nodes))
	for _, n := range nodes {
		keys = append(keys, n.Key)
	}
	return keys, nil
}
