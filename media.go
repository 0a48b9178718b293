package instagram

import (
	"context"

	"golang.org/x/sync/errgroup"

	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
)

// maxParallelMedia bounds the concurrent requests MediaMultiple issues.
const maxParallelMedia = 8

// Media returns a media object by id.
func (c *Client) Media(ctx context.Context, mediaID string) (*types.Media, error) {
	if err := c.validator.ValidateID("media id", mediaID); err != nil {
		return nil, err
	}
	return fetchOne[types.Media](ctx, c, types.Get("/media/"+mediaID, nil))
}

// MediaByShortcode returns a media object by the shortcode in its public link,
// e.g. "D" for instagram.com/p/D/.
func (c *Client) MediaByShortcode(ctx context.Context, shortcode string) (*types.Media, error) {
	if err := c.validator.ValidateShortcode(shortcode); err != nil {
		return nil, err
	}
	return fetchOne[types.Media](ctx, c, types.Get("/media/shortcode/"+shortcode, nil))
}

// SearchMedia returns recent media around a coordinate. Lat and Lng are required.
func (c *Client) SearchMedia(ctx context.Context, request *types.SearchMediaRequest) ([]types.Media, error) {
	if request == nil || request.Lat == nil || request.Lng == nil {
		return nil, &pkgerrs.ValidationError{Field: "geo", Message: "lat and lng are required"}
	}
	if err := c.validator.ValidateGeo(request.GeoQuery); err != nil {
		return nil, err
	}
	return Call[[]types.Media](ctx, c, types.Get("/media/search", request.Params()))
}

// MediaMultiple fetches several media objects in parallel.
//
// Results are returned in the order of mediaIDs. The first failure cancels
// the remaining requests and is returned with whatever results completed;
// entries for failed or cancelled requests are nil.
func (c *Client) MediaMultiple(ctx context.Context, mediaIDs []string) ([]*types.Media, error) {
	if len(mediaIDs) == 0 {
		return []*types.Media{}, nil
	}
	for _, id := range mediaIDs {
		if err := c.validator.ValidateID("media id", id); err != nil {
			return nil, err
		}
	}

	results := make([]*types.Media, len(mediaIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelMedia)

	for i, id := range mediaIDs {
		g.Go(func() error {
			media, err := c.Media(gctx, id)
			if err != nil {
				return err
			}
			results[i] = media
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Comments returns the comments on a media object.
func (c *Client) Comments(ctx context.Context, mediaID string) ([]types.Comment, error) {
	if err := c.validator.ValidateID("media id", mediaID); err != nil {
		return nil, err
	}
	return Call[[]types.Comment](ctx, c, types.Get("/media/"+mediaID+"/comments", nil))
}

// CreateComment posts text as a comment on a media object. Requires the
// comments scope. The text is checked against the API's comment rules first.
func (c *Client) CreateComment(ctx context.Context, mediaID, text string) error {
	if err := c.validator.ValidateID("media id", mediaID); err != nil {
		return err
	}
	if err := c.validator.ValidateCommentText(text); err != nil {
		return err
	}
	params := types.NewParams().Set("text", text)
	_, err := Call[types.Empty](ctx, c, types.Post("/media/"+mediaID+"/comments", params))
	return err
}

// DeleteComment removes a comment from a media object. The comment must be
// on the authenticated user's media or authored by them.
func (c *Client) DeleteComment(ctx context.Context, mediaID, commentID string) error {
	if err := c.validator.ValidateID("media id", mediaID); err != nil {
		return err
	}
	if err := c.validator.ValidateID("comment id", commentID); err != nil {
		return err
	}
	_, err := Call[types.Empty](ctx, c, types.Delete("/media/"+mediaID+"/comments/"+commentID, nil))
	return err
}

// Likes returns the users who have liked a media object.
func (c *Client) Likes(ctx context.Context, mediaID string) ([]types.User, error) {
	if err := c.validator.ValidateID("media id", mediaID); err != nil {
		return nil, err
	}
	return Call[[]types.User](ctx, c, types.Get("/media/"+mediaID+"/likes", nil))
}

// Like sets a like on a media object as the authenticated user. Requires the likes scope.
func (c *Client) Like(ctx context.Context, mediaID string) error {
	if err := c.validator.ValidateID("media id", mediaID); err != nil {
		return err
	}
	_, err := Call[types.Empty](ctx, c, types.Post("/media/"+mediaID+"/likes", nil))
	return err
}

// Unlike removes the authenticated user's like from a media object.
func (c *Client) Unlike(ctx context.Context, mediaID string) error {
	if err := c.validator.ValidateID("media id", mediaID); err != nil {
		return err
	}
	_, err := Call[types.Empty](ctx, c, types.Delete("/media/"+mediaID+"/likes", nil))
	return err
}
