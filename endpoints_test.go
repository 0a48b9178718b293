package instagram

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
	"github.com/jamesprial/go-instagram-api-wrapper/test_helpers"
)

var (
	sampleUser = map[string]any{"id": "1574083", "username": "snoopdogg", "full_name": "Snoop Dogg"}

	sampleMedia = map[string]any{
		"id":           "22699663_1574083",
		"type":         "image",
		"created_time": "1296748524",
		"link":         "https://www.instagram.com/p/D/",
		"likes":        map[string]any{"count": 15},
		"comments":     map[string]any{"count": 2},
		"tags":         []string{"snow"},
		"user":         sampleUser,
	}

	sampleRelationship = map[string]any{"outgoing_status": "follows", "incoming_status": "none"}
)

func TestEndpoints_Routing(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		response  *test_helpers.MockResponse
		call      func(ctx context.Context, c *Client) error
		wantQuery string
		wantBody  string
	}{
		{
			name: "me", method: http.MethodGet, path: "/users/self",
			response:  test_helpers.DataResponse(sampleUser),
			call:      func(ctx context.Context, c *Client) error { _, err := c.Me(ctx); return err },
			wantQuery: "access_token=tok",
		},
		{
			name: "user", method: http.MethodGet, path: "/users/1574083",
			response:  test_helpers.DataResponse(sampleUser),
			call:      func(ctx context.Context, c *Client) error { _, err := c.User(ctx, "1574083"); return err },
			wantQuery: "access_token=tok",
		},
		{
			name: "recent media of self", method: http.MethodGet, path: "/users/self/media/recent",
			response:  test_helpers.DataResponse([]any{sampleMedia}),
			call:      func(ctx context.Context, c *Client) error { _, err := c.RecentMedia(ctx, nil); return err },
			wantQuery: "access_token=tok",
		},
		{
			name: "recent media with cursor", method: http.MethodGet, path: "/users/42/media/recent",
			response: test_helpers.DataResponse([]any{}),
			call: func(ctx context.Context, c *Client) error {
				_, err := c.RecentMedia(ctx, &types.RecentMediaRequest{
					UserID: "42",
					Cursor: types.Cursor{MaxID: types.String("100_42")},
					Count:  types.Int(5),
				})
				return err
			},
			wantQuery: "access_token=tok&max_id=100_42&count=5",
		},
		{
			name: "liked media", method: http.MethodGet, path: "/users/self/media/liked",
			response: test_helpers.DataResponse([]any{}),
			call: func(ctx context.Context, c *Client) error {
				_, err := c.UserLikedMedia(ctx, &types.LikedMediaRequest{MaxLikeID: types.String("9"), Count: types.Int(3)})
				return err
			},
			wantQuery: "access_token=tok&max_like_id=9&count=3",
		},
		{
			name: "search users", method: http.MethodGet, path: "/users/search",
			response: test_helpers.DataResponse([]any{sampleUser}),
			call: func(ctx context.Context, c *Client) error {
				_, err := c.SearchUsers(ctx, &types.SearchUsersRequest{Query: "jack smith"})
				return err
			},
			wantQuery: "access_token=tok&q=jack+smith",
		},
		{
			name: "follows", method: http.MethodGet, path: "/users/self/follows",
			response:  test_helpers.DataResponse([]any{sampleUser}),
			call:      func(ctx context.Context, c *Client) error { _, err := c.UserFollows(ctx); return err },
			wantQuery: "access_token=tok",
		},
		{
			name: "followers", method: http.MethodGet, path: "/users/self/followed-by",
			response:  test_helpers.DataResponse([]any{sampleUser}),
			call:      func(ctx context.Context, c *Client) error { _, err := c.UserFollowers(ctx); return err },
			wantQuery: "access_token=tok",
		},
		{
			name: "requested by", method: http.MethodGet, path: "/users/self/requested-by",
			response:  test_helpers.DataResponse([]any{}),
			call:      func(ctx context.Context, c *Client) error { _, err := c.UserRequestedBy(ctx); return err },
			wantQuery: "access_token=tok",
		},
		{
			name: "relationship", method: http.MethodGet, path: "/users/1574083/relationship",
			response:  test_helpers.DataResponse(sampleRelationship),
			call:      func(ctx context.Context, c *Client) error { _, err := c.UserRelationship(ctx, "1574083"); return err },
			wantQuery: "access_token=tok",
		},
		{
			name: "follow", method: http.MethodPost, path: "/users/1574083/relationship",
			response:  test_helpers.DataResponse(sampleRelationship),
			call:      func(ctx context.Context, c *Client) error { _, err := c.Follow(ctx, "1574083"); return err },
			wantQuery: "access_token=tok",
			wantBody:  "action=follow",
		},
		{
			name: "unfollow", method: http.MethodPost, path: "/users/1574083/relationship",
			response:  test_helpers.DataResponse(sampleRelationship),
			call:      func(ctx context.Context, c *Client) error { _, err := c.Unfollow(ctx, "1574083"); return err },
			wantQuery: "access_token=tok",
			wantBody:  "action=unfollow",
		},
		{
			name: "approve", method: http.MethodPost, path: "/users/77/relationship",
			response:  test_helpers.DataResponse(sampleRelationship),
			call:      func(ctx context.Context, c *Client) error { _, err := c.ApproveRequest(ctx, "77"); return err },
			wantQuery: "access_token=tok",
			wantBody:  "action=approve",
		},
		{
			name: "ignore", method: http.MethodPost, path: "/users/77/relationship",
			response:  test_helpers.DataResponse(sampleRelationship),
			call:      func(ctx context.Context, c *Client) error { _, err := c.IgnoreRequest(ctx, "77"); return err },
			wantQuery: "access_token=tok",
			wantBody:  "action=ignore",
		},
		{
			name: "media", method: http.MethodGet, path: "/media/22699663_1574083",
			response:  test_helpers.DataResponse(sampleMedia),
			call:      func(ctx context.Context, c *Client) error { _, err := c.Media(ctx, "22699663_1574083"); return err },
			wantQuery: "access_token=tok",
		},
		{
			name: "media by shortcode", method: http.MethodGet, path: "/media/shortcode/D",
			response:  test_helpers.DataResponse(sampleMedia),
			call:      func(ctx context.Context, c *Client) error { _, err := c.MediaByShortcode(ctx, "D"); return err },
			wantQuery: "access_token=tok",
		},
		{
			name: "search media", method: http.MethodGet, path: "/media/search",
			response: test_helpers.DataResponse([]any{sampleMedia}),
			call: func(ctx context.Context, c *Client) error {
				_, err := c.SearchMedia(ctx, &types.SearchMediaRequest{GeoQuery: types.GeoQuery{
					Lat: types.Float(48.858844), Lng: types.Float(2.294351), Distance: types.Int(1000),
				}})
				return err
			},
			wantQuery: "access_token=tok&lat=48.858844&lng=2.294351&distance=1000",
		},
		{
			name: "comments", method: http.MethodGet, path: "/media/1/comments",
			response:  test_helpers.DataResponse([]any{}),
			call:      func(ctx context.Context, c *Client) error { _, err := c.Comments(ctx, "1"); return err },
			wantQuery: "access_token=tok",
		},
		{
			name: "create comment", method: http.MethodPost, path: "/media/1/comments",
			response:  test_helpers.DataResponse(nil),
			call:      func(ctx context.Context, c *Client) error { return c.CreateComment(ctx, "1", "Nice shot & more") },
			wantQuery: "access_token=tok",
			wantBody:  "text=Nice+shot+%26+more",
		},
		{
			name: "delete comment", method: http.MethodDelete, path: "/media/1/comments/420",
			response:  test_helpers.DataResponse(nil),
			call:      func(ctx context.Context, c *Client) error { return c.DeleteComment(ctx, "1", "420") },
			wantQuery: "access_token=tok",
		},
		{
			name: "likes", method: http.MethodGet, path: "/media/1/likes",
			response:  test_helpers.DataResponse([]any{sampleUser}),
			call:      func(ctx context.Context, c *Client) error { _, err := c.Likes(ctx, "1"); return err },
			wantQuery: "access_token=tok",
		},
		{
			name: "like", method: http.MethodPost, path: "/media/1/likes",
			response:  test_helpers.DataResponse(nil),
			call:      func(ctx context.Context, c *Client) error { return c.Like(ctx, "1") },
			wantQuery: "access_token=tok",
		},
		{
			name: "unlike", method: http.MethodDelete, path: "/media/1/likes",
			response:  test_helpers.DataResponse(nil),
			call:      func(ctx context.Context, c *Client) error { return c.Unlike(ctx, "1") },
			wantQuery: "access_token=tok",
		},
		{
			name: "tag", method: http.MethodGet, path: "/tags/nofilter",
			response:  test_helpers.DataResponse(map[string]any{"name": "nofilter", "media_count": 472}),
			call:      func(ctx context.Context, c *Client) error { _, err := c.Tag(ctx, "nofilter"); return err },
			wantQuery: "access_token=tok",
		},
		{
			name: "recent tag media", method: http.MethodGet, path: "/tags/snow/media/recent",
			response: test_helpers.DataResponse([]any{sampleMedia}),
			call: func(ctx context.Context, c *Client) error {
				_, err := c.RecentTagMedia(ctx, &types.TagMediaRequest{Tag: "snow", MinTagID: types.String("5"), Count: types.Int(2)})
				return err
			},
			wantQuery: "access_token=tok&min_tag_id=5&count=2",
		},
		{
			name: "search tags", method: http.MethodGet, path: "/tags/search",
			response:  test_helpers.DataResponse([]any{}),
			call:      func(ctx context.Context, c *Client) error { _, err := c.SearchTags(ctx, "snow"); return err },
			wantQuery: "access_token=tok&q=snow",
		},
		{
			name: "location", method: http.MethodGet, path: "/locations/1",
			response:  test_helpers.DataResponse(map[string]any{"id": "1", "name": "Dogpatch Labs"}),
			call:      func(ctx context.Context, c *Client) error { _, err := c.Location(ctx, "1"); return err },
			wantQuery: "access_token=tok",
		},
		{
			name: "recent location media", method: http.MethodGet, path: "/locations/1/media/recent",
			response: test_helpers.DataResponse([]any{}),
			call: func(ctx context.Context, c *Client) error {
				_, err := c.RecentLocationMedia(ctx, &types.LocationMediaRequest{LocationID: "1", Cursor: types.Cursor{MinID: types.String("3")}})
				return err
			},
			wantQuery: "access_token=tok&min_id=3",
		},
		{
			name: "search locations by place", method: http.MethodGet, path: "/locations/search",
			response: test_helpers.DataResponse([]any{}),
			call: func(ctx context.Context, c *Client) error {
				_, err := c.SearchLocations(ctx, &types.SearchLocationsRequest{FacebookPlacesID: types.String("273471170716")})
				return err
			},
			wantQuery: "access_token=tok&facebook_places_id=273471170716",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, test_helpers.NewStoreWithToken("tok"), nil)
			env.server.SetResponse(tt.method, tt.path, tt.response)

			require.NoError(t, tt.call(context.Background(), env.client))

			req, err := env.server.GetLastRequest(tt.method, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuery, req.RawQuery)
			assert.Equal(t, tt.wantBody, req.Body)
			if tt.method == http.MethodPost {
				assert.Equal(t, "application/x-www-form-urlencoded", req.Headers.Get("Content-Type"))
			}
		})
	}
}

func TestEndpoints_InvalidInputNeverSent(t *testing.T) {
	tests := []struct {
		name string
		call func(ctx context.Context, c *Client) error
	}{
		{"empty user id", func(ctx context.Context, c *Client) error { _, err := c.User(ctx, ""); return err }},
		{"user id with query", func(ctx context.Context, c *Client) error { _, err := c.User(ctx, "1?x=y"); return err }},
		{"nil user search", func(ctx context.Context, c *Client) error { _, err := c.SearchUsers(ctx, nil); return err }},
		{"blank user search", func(ctx context.Context, c *Client) error {
			_, err := c.SearchUsers(ctx, &types.SearchUsersRequest{Query: " "})
			return err
		}},
		{"follow empty id", func(ctx context.Context, c *Client) error { _, err := c.Follow(ctx, ""); return err }},
		{"media path traversal", func(ctx context.Context, c *Client) error { _, err := c.Media(ctx, "../users/self"); return err }},
		{"bad shortcode", func(ctx context.Context, c *Client) error { _, err := c.MediaByShortcode(ctx, "a b"); return err }},
		{"search media without coordinates", func(ctx context.Context, c *Client) error {
			_, err := c.SearchMedia(ctx, &types.SearchMediaRequest{})
			return err
		}},
		{"search media distance too large", func(ctx context.Context, c *Client) error {
			_, err := c.SearchMedia(ctx, &types.SearchMediaRequest{GeoQuery: types.GeoQuery{
				Lat: types.Float(1), Lng: types.Float(1), Distance: types.Int(10000),
			}})
			return err
		}},
		{"comment too many hashtags", func(ctx context.Context, c *Client) error {
			return c.CreateComment(ctx, "1", "#a #b #c #d #e")
		}},
		{"comment all caps", func(ctx context.Context, c *Client) error { return c.CreateComment(ctx, "1", "WOW NICE") }},
		{"delete comment empty id", func(ctx context.Context, c *Client) error { return c.DeleteComment(ctx, "1", "") }},
		{"tag with hash", func(ctx context.Context, c *Client) error { _, err := c.Tag(ctx, "#snow"); return err }},
		{"nil tag media request", func(ctx context.Context, c *Client) error { _, err := c.RecentTagMedia(ctx, nil); return err }},
		{"nil location media request", func(ctx context.Context, c *Client) error {
			_, err := c.RecentLocationMedia(ctx, nil)
			return err
		}},
		{"search locations without anchor", func(ctx context.Context, c *Client) error {
			_, err := c.SearchLocations(ctx, &types.SearchLocationsRequest{})
			return err
		}},
		{"search locations lat only", func(ctx context.Context, c *Client) error {
			_, err := c.SearchLocations(ctx, &types.SearchLocationsRequest{GeoQuery: types.GeoQuery{Lat: types.Float(1)}})
			return err
		}},
		{"media multiple bad id", func(ctx context.Context, c *Client) error {
			_, err := c.MediaMultiple(ctx, []string{"1", ""})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, test_helpers.NewStoreWithToken("tok"), nil)

			err := tt.call(context.Background(), env.client)
			require.Error(t, err)
			assert.Equal(t, pkgerrs.KindInvalidRequest, pkgerrs.KindOf(err))
			assert.Empty(t, env.server.GetRequestLog())
		})
	}
}

func TestEndpoints_DecodesModels(t *testing.T) {
	env := newTestEnv(t, test_helpers.NewStoreWithToken("tok"), nil)
	env.server.SetResponse(http.MethodGet, "/media/22699663_1574083", test_helpers.DataResponse(sampleMedia))
	env.server.SetResponse(http.MethodGet, "/users/1574083/relationship", test_helpers.DataResponse(sampleRelationship))

	media, err := env.client.Media(context.Background(), "22699663_1574083")
	require.NoError(t, err)
	assert.Equal(t, "image", media.Type)
	assert.Equal(t, 15, media.Likes.Count)
	assert.Equal(t, "snoopdogg", media.User.Username)
	created, err := media.Created()
	require.NoError(t, err)
	assert.Equal(t, int64(1296748524), created.Unix())

	rel, err := env.client.UserRelationship(context.Background(), "1574083")
	require.NoError(t, err)
	assert.Equal(t, "follows", rel.OutgoingStatus)
	require.NotNil(t, rel.IncomingStatus)
	assert.Equal(t, "none", *rel.IncomingStatus)
}

func TestEndpoints_Pagination(t *testing.T) {
	env := newTestEnv(t, test_helpers.NewStoreWithToken("tok"), nil)
	env.server.SetResponse(http.MethodGet, "/users/self/media/recent",
		test_helpers.PageResponse([]any{sampleMedia, sampleMedia}, "https://api.instagram.com/v1/users/self/media/recent?max_id=7", "7"))
	env.server.SetResponse(http.MethodGet, "/users/self/follows", test_helpers.DataResponse([]any{sampleUser}))

	page, err := env.client.RecentMedia(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore())
	assert.Equal(t, "7", page.NextMaxID)

	// The cursor is reported, never followed.
	assert.Equal(t, 1, env.server.GetCallCount(http.MethodGet, "/users/self/media/recent"))

	users, err := env.client.UserFollows(context.Background())
	require.NoError(t, err)
	assert.Len(t, users.Items, 1)
	assert.False(t, users.HasMore())

	var nilPage *MediaPage
	assert.False(t, nilPage.HasMore())
}

func TestEndpoints_APIError(t *testing.T) {
	env := newTestEnv(t, test_helpers.NewStoreWithToken("expired"), nil)
	env.server.SetResponse(http.MethodPost, "/media/1/likes", test_helpers.ErrorResponse(
		http.StatusBadRequest, "OAuthAccessTokenException", "The access_token provided is invalid."))

	err := env.client.Like(context.Background(), "1")

	var apiErr *pkgerrs.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Code)
	assert.Equal(t, "The access_token provided is invalid.", apiErr.Message)
	assert.NotContains(t, err.Error(), "expired")
}

func TestMediaMultiple(t *testing.T) {
	env := newTestEnv(t, test_helpers.NewStoreWithToken("tok"), nil)
	ids := []string{"1_9", "2_9", "3_9", "4_9"}
	for i, id := range ids {
		m := map[string]any{"id": id, "type": "image", "created_time": "1296748524"}
		resp := test_helpers.DataResponse(m)
		// Later ids answer first so completion order differs from request order.
		resp.Delay = time.Duration(len(ids)-i) * 10 * time.Millisecond
		env.server.SetResponse(http.MethodGet, "/media/"+id, resp)
	}

	results, err := env.client.MediaMultiple(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, results, len(ids))
	for i, id := range ids {
		require.NotNil(t, results[i])
		assert.Equal(t, id, results[i].ID)
	}
}

func TestMediaMultiple_Empty(t *testing.T) {
	env := newTestEnv(t, test_helpers.NewStoreWithToken("tok"), nil)

	results, err := env.client.MediaMultiple(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, env.server.GetRequestLog())
}

func TestMediaMultiple_Failure(t *testing.T) {
	env := newTestEnv(t, test_helpers.NewStoreWithToken("tok"), nil)
	env.server.SetResponse(http.MethodGet, "/media/1", test_helpers.DataResponse(map[string]any{"id": "1"}))
	env.server.SetResponse(http.MethodGet, "/media/2", test_helpers.ErrorResponse(
		http.StatusBadRequest, "APINotFoundError", "invalid media id"))

	results, err := env.client.MediaMultiple(context.Background(), []string{"1", "2"})
	require.Error(t, err)
	assert.Equal(t, pkgerrs.KindInvalidRequest, pkgerrs.KindOf(err))
	require.Len(t, results, 2)
	assert.Nil(t, results[1])
}

func TestMediaMultiple_MoreIDsThanWorkers(t *testing.T) {
	env := newTestEnv(t, test_helpers.NewStoreWithToken("tok"), nil)

	ids := make([]string, 3*maxParallelMedia)
	for i := range ids {
		ids[i] = "1"
	}
	resp := test_helpers.DataResponse(map[string]any{"id": "1"})
	resp.Delay = 5 * time.Millisecond
	env.server.SetResponse(http.MethodGet, "/media/1", resp)

	results, err := env.client.MediaMultiple(context.Background(), ids)
	require.NoError(t, err)
	assert.Len(t, results, len(ids))
	assert.Equal(t, len(ids), env.server.GetCallCount(http.MethodGet, "/media/1"))
}
