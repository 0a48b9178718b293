package instagram

import (
	"context"

	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
)

// Tag returns information about a tag. name is given without the leading "#".
func (c *Client) Tag(ctx context.Context, name string) (*types.Tag, error) {
	if err := c.validator.ValidateTagName(name); err != nil {
		return nil, err
	}
	return fetchOne[types.Tag](ctx, c, types.Get("/tags/"+name, nil))
}

// RecentTagMedia returns recently tagged media.
func (c *Client) RecentTagMedia(ctx context.Context, request *types.TagMediaRequest) (*MediaPage, error) {
	if request == nil {
		return nil, c.validator.ValidateID("tag", "")
	}
	if err := c.validator.ValidateTagName(request.Tag); err != nil {
		return nil, err
	}
	return fetchPage[types.Media](ctx, c, types.Get("/tags/"+request.Tag+"/media/recent", request.Params()))
}

// SearchTags finds tags by name.
func (c *Client) SearchTags(ctx context.Context, query string) ([]types.Tag, error) {
	if err := c.validator.ValidateQuery("query", query); err != nil {
		return nil, err
	}
	return Call[[]types.Tag](ctx, c, types.Get("/tags/search", types.NewParams().Set("q", query)))
}

// Location returns information about a location.
func (c *Client) Location(ctx context.Context, locationID string) (*types.Location, error) {
	if err := c.validator.ValidateID("location id", locationID); err != nil {
		return nil, err
	}
	return fetchOne[types.Location](ctx, c, types.Get("/locations/"+locationID, nil))
}

// RecentLocationMedia returns recent media from a location.
func (c *Client) RecentLocationMedia(ctx context.Context, request *types.LocationMediaRequest) (*MediaPage, error) {
	if request == nil {
		return nil, c.validator.ValidateID("location id", "")
	}
	if err := c.validator.ValidateID("location id", request.LocationID); err != nil {
		return nil, err
	}
	return fetchPage[types.Media](ctx, c, types.Get("/locations/"+request.LocationID+"/media/recent", request.Params()))
}

// SearchLocations finds locations near a coordinate or by Facebook place id.
// Either Lat and Lng or FacebookPlacesID is required.
func (c *Client) SearchLocations(ctx context.Context, request *types.SearchLocationsRequest) ([]types.Location, error) {
	if request == nil || (request.Lat == nil && request.Lng == nil && request.FacebookPlacesID == nil) {
		return nil, &pkgerrs.ValidationError{Field: "geo", Message: "lat and lng or facebook_places_id is required"}
	}
	if err := c.validator.ValidateGeo(request.GeoQuery); err != nil {
		return nil, err
	}
	return Call[[]types.Location](ctx, c, types.Get("/locations/search", request.Params()))
}
