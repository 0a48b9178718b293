package instagram

import (
	"context"

	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
)

// Page is one page of a list endpoint. The cursors are copied from the
// envelope's pagination block; the client never follows them.
type Page[T any] struct {
	Items     []T
	NextURL   string // For pagination
	NextMaxID string // For pagination
}

// HasMore reports whether the server advertised a further page.
func (p *Page[T]) HasMore() bool {
	return p != nil && (p.NextURL != "" || p.NextMaxID != "")
}

// MediaPage is a page of media objects.
type MediaPage = Page[types.Media]

// UserPage is a page of users.
type UserPage = Page[types.User]

func fetchPage[T any](ctx context.Context, c *Client, desc types.RequestDescriptor) (*Page[T], error) {
	var items []T
	env, err := c.Do(ctx, desc, &items)
	if err != nil {
		return nil, err
	}

	page := &Page[T]{Items: items}
	if env.Pagination != nil {
		page.NextURL = env.Pagination.NextURL
		page.NextMaxID = env.Pagination.NextMaxID
	}
	return page, nil
}

func fetchOne[T any](ctx context.Context, c *Client, desc types.RequestDescriptor) (*T, error) {
	out, err := Call[T](ctx, c, desc)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
