package instagram

import (
	"context"

	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
)

// SelfID addresses the authenticated user wherever a user id is accepted.
const SelfID = "self"

// Relationship actions accepted by the relationship endpoint.
const (
	actionFollow   = "follow"
	actionUnfollow = "unfollow"
	actionApprove  = "approve"
	actionIgnore   = "ignore"
)

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*types.User, error) {
	return c.User(ctx, SelfID)
}

// User returns basic information about a user. userID may be SelfID.
func (c *Client) User(ctx context.Context, userID string) (*types.User, error) {
	if err := c.validator.ValidateID("user id", userID); err != nil {
		return nil, err
	}
	return fetchOne[types.User](ctx, c, types.Get("/users/"+userID, nil))
}

// RecentMedia returns the most recent media published by a user.
// A nil request or an empty UserID fetches the authenticated user's media.
func (c *Client) RecentMedia(ctx context.Context, request *types.RecentMediaRequest) (*MediaPage, error) {
	userID := SelfID
	if request != nil && request.UserID != "" {
		userID = request.UserID
	}
	if err := c.validator.ValidateID("user id", userID); err != nil {
		return nil, err
	}
	return fetchPage[types.Media](ctx, c, types.Get("/users/"+userID+"/media/recent", request.Params()))
}

// UserLikedMedia returns media the authenticated user has liked.
func (c *Client) UserLikedMedia(ctx context.Context, request *types.LikedMediaRequest) (*MediaPage, error) {
	return fetchPage[types.Media](ctx, c, types.Get("/users/self/media/liked", request.Params()))
}

// SearchUsers finds users by name.
func (c *Client) SearchUsers(ctx context.Context, request *types.SearchUsersRequest) ([]types.User, error) {
	if request == nil {
		return nil, c.validator.ValidateQuery("query", "")
	}
	if err := c.validator.ValidateQuery("query", request.Query); err != nil {
		return nil, err
	}
	return Call[[]types.User](ctx, c, types.Get("/users/search", request.Params()))
}

// UserFollows returns the users the authenticated user follows.
func (c *Client) UserFollows(ctx context.Context) (*UserPage, error) {
	return fetchPage[types.User](ctx, c, types.Get("/users/self/follows", nil))
}

// UserFollowers returns the users following the authenticated user.
func (c *Client) UserFollowers(ctx context.Context) (*UserPage, error) {
	return fetchPage[types.User](ctx, c, types.Get("/users/self/followed-by", nil))
}

// UserRequestedBy returns users who have requested to follow the authenticated user.
func (c *Client) UserRequestedBy(ctx context.Context) (*UserPage, error) {
	return fetchPage[types.User](ctx, c, types.Get("/users/self/requested-by", nil))
}

// UserRelationship returns the relationship between the authenticated user and userID.
func (c *Client) UserRelationship(ctx context.Context, userID string) (*types.Relationship, error) {
	if err := c.validator.ValidateID("user id", userID); err != nil {
		return nil, err
	}
	return fetchOne[types.Relationship](ctx, c, types.Get("/users/"+userID+"/relationship", nil))
}

// Follow follows userID. Requires the relationships scope.
func (c *Client) Follow(ctx context.Context, userID string) (*types.Relationship, error) {
	return c.modifyRelationship(ctx, userID, actionFollow)
}

// Unfollow stops following userID. Requires the relationships scope.
func (c *Client) Unfollow(ctx context.Context, userID string) (*types.Relationship, error) {
	return c.modifyRelationship(ctx, userID, actionUnfollow)
}

// ApproveRequest approves userID's pending follow request.
func (c *Client) ApproveRequest(ctx context.Context, userID string) (*types.Relationship, error) {
	return c.modifyRelationship(ctx, userID, actionApprove)
}

// IgnoreRequest ignores userID's pending follow request.
func (c *Client) IgnoreRequest(ctx context.Context, userID string) (*types.Relationship, error) {
	return c.modifyRelationship(ctx, userID, actionIgnore)
}

func (c *Client) modifyRelationship(ctx context.Context, userID, action string) (*types.Relationship, error) {
	if err := c.validator.ValidateID("user id", userID); err != nil {
		return nil, err
	}
	params := types.NewParams().Set("action", action)
	return fetchOne[types.Relationship](ctx, c, types.Post("/users/"+userID+"/relationship", params))
}
