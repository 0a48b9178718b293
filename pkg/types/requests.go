package types

import "strconv"

// Cursor holds the optional id-based paging bounds shared by recent-media endpoints.
// A nil field is omitted from the request.
type Cursor struct {
	// MaxID returns media earlier than this id.
	MaxID *string
	// MinID returns media later than this id.
	MinID *string
}

// RecentMediaRequest describes a request for a user's most recent media.
// UserID may be "self" for the authenticated user.
type RecentMediaRequest struct {
	UserID string
	Cursor
	Count *int
}

// Params returns the query parameters for the request.
func (r *RecentMediaRequest) Params() *Params {
	p := NewParams()
	if r == nil {
		return p
	}
	setString(p, "max_id", r.MaxID)
	setString(p, "min_id", r.MinID)
	setInt(p, "count", r.Count)
	return p
}

// LikedMediaRequest describes a request for media liked by the authenticated user.
type LikedMediaRequest struct {
	MaxLikeID *string
	Count     *int
}

// Params returns the query parameters for the request.
func (r *LikedMediaRequest) Params() *Params {
	p := NewParams()
	if r == nil {
		return p
	}
	setString(p, "max_like_id", r.MaxLikeID)
	setInt(p, "count", r.Count)
	return p
}

// SearchUsersRequest describes a user search.
type SearchUsersRequest struct {
	Query string
	Count *int
}

// Params returns the query parameters for the request.
func (r *SearchUsersRequest) Params() *Params {
	p := NewParams()
	if r == nil {
		return p
	}
	p.Set("q", r.Query)
	setInt(p, "count", r.Count)
	return p
}

// GeoQuery describes a search around a coordinate. Distance is in meters.
type GeoQuery struct {
	Lat      *float64
	Lng      *float64
	Distance *int
}

// SearchMediaRequest describes a search for recent media in an area.
type SearchMediaRequest struct {
	GeoQuery
}

// Params returns the query parameters for the request.
func (r *SearchMediaRequest) Params() *Params {
	p := NewParams()
	if r == nil {
		return p
	}
	r.GeoQuery.apply(p)
	return p
}

// TagMediaRequest describes a request for recently tagged media.
type TagMediaRequest struct {
	Tag      string
	MaxTagID *string
	MinTagID *string
	Count    *int
}

// Params returns the query parameters for the request.
func (r *TagMediaRequest) Params() *Params {
	p := NewParams()
	if r == nil {
		return p
	}
	setString(p, "max_tag_id", r.MaxTagID)
	setString(p, "min_tag_id", r.MinTagID)
	setInt(p, "count", r.Count)
	return p
}

// LocationMediaRequest describes a request for recent media at a location.
type LocationMediaRequest struct {
	LocationID string
	Cursor
}

// Params returns the query parameters for the request.
func (r *LocationMediaRequest) Params() *Params {
	p := NewParams()
	if r == nil {
		return p
	}
	setString(p, "max_id", r.MaxID)
	setString(p, "min_id", r.MinID)
	return p
}

// SearchLocationsRequest describes a location search by coordinate or Facebook place.
type SearchLocationsRequest struct {
	GeoQuery
	FacebookPlacesID *string
}

// Params returns the query parameters for the request.
func (r *SearchLocationsRequest) Params() *Params {
	p := NewParams()
	if r == nil {
		return p
	}
	r.GeoQuery.apply(p)
	setString(p, "facebook_places_id", r.FacebookPlacesID)
	return p
}

func (g GeoQuery) apply(p *Params) {
	setFloat(p, "lat", g.Lat)
	setFloat(p, "lng", g.Lng)
	setInt(p, "distance", g.Distance)
}

func setString(p *Params, key string, v *string) {
	if v != nil {
		p.Set(key, *v)
	}
}

func setInt(p *Params, key string, v *int) {
	if v != nil {
		p.Set(key, strconv.Itoa(*v))
	}
}

func setFloat(p *Params, key string, v *float64) {
	if v != nil {
		p.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}
