package types

import (
	"fmt"
	"strconv"
	"time"
)

// User is an account as returned by the users and relationships endpoints.
type User struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	ProfilePicture string  `json:"profile_picture"`
	FullName       string  `json:"full_name"`
	Bio            *string `json:"bio,omitempty"`
	Website        *string `json:"website,omitempty"`
	IsBusiness     *bool   `json:"is_business,omitempty"`
	Counts         *Counts `json:"counts,omitempty"`
}

// Counts holds a user's media and follow counters.
type Counts struct {
	Media      int `json:"media"`
	Follows    int `json:"follows"`
	FollowedBy int `json:"followed_by"`
}

// Resolution is one rendition of an image or video.
type Resolution struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

// Images groups the image renditions of a media object.
type Images struct {
	Thumbnail          Resolution `json:"thumbnail"`
	LowResolution      Resolution `json:"low_resolution"`
	StandardResolution Resolution `json:"standard_resolution"`
}

// Videos groups the video renditions of a media object.
type Videos struct {
	LowResolution      Resolution  `json:"low_resolution"`
	StandardResolution Resolution  `json:"standard_resolution"`
	LowBandwidth       *Resolution `json:"low_bandwidth,omitempty"`
}

// Count wraps a counter object such as {"count": 12}.
type Count struct {
	Count int `json:"count"`
}

// Position is a relative point inside a photo.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UserInPhoto is a user tagged at a position in a photo.
type UserInPhoto struct {
	User     User     `json:"user"`
	Position Position `json:"position"`
}

// CarouselMedia is one item of a carousel post.
type CarouselMedia struct {
	Images       *Images       `json:"images,omitempty"`
	Videos       *Videos       `json:"videos,omitempty"`
	UsersInPhoto []UserInPhoto `json:"users_in_photo"`
	Type         string        `json:"type"`
}

// Media is an image, video or carousel post.
type Media struct {
	ID            string          `json:"id"`
	User          User            `json:"user"`
	Images        Images          `json:"images"`
	CreatedTime   string          `json:"created_time"`
	Caption       *Comment        `json:"caption,omitempty"`
	UserHasLiked  bool            `json:"user_has_liked"`
	Likes         Count           `json:"likes"`
	Tags          []string        `json:"tags"`
	Filter        string          `json:"filter"`
	Comments      Count           `json:"comments"`
	Type          string          `json:"type"`
	Link          string          `json:"link"`
	Location      *Location       `json:"location,omitempty"`
	UsersInPhoto  []UserInPhoto   `json:"users_in_photo"`
	Videos        *Videos         `json:"videos,omitempty"`
	CarouselMedia []CarouselMedia `json:"carousel_media,omitempty"`
	Distance      *float64        `json:"distance,omitempty"`
}

// Created parses CreatedTime, a unix timestamp in seconds sent as a string.
func (m Media) Created() (time.Time, error) {
	return parseUnixString(m.CreatedTime)
}

// Comment is a comment on a media object; captions share the same shape.
type Comment struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	From        User   `json:"from"`
	CreatedTime string `json:"created_time"`
}

// Created parses CreatedTime, a unix timestamp in seconds sent as a string.
func (c Comment) Created() (time.Time, error) {
	return parseUnixString(c.CreatedTime)
}

// Tag is a hashtag and its media count.
type Tag struct {
	Name       string `json:"name"`
	MediaCount int    `json:"media_count"`
}

// Location is a named place with coordinates.
type Location struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	StreetAddress *string `json:"street_address,omitempty"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
}

// Relationship describes how the authenticated user and another user relate.
type Relationship struct {
	OutgoingStatus string  `json:"outgoing_status"`
	IncomingStatus *string `json:"incoming_status,omitempty"`
}

// Empty is the result type for calls whose data is null, such as like or delete.
type Empty struct{}

func parseUnixString(s string) (time.Time, error) {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid created_time %q: %w", s, err)
	}
	return time.Unix(secs, 0).UTC(), nil
}
