package test_generators

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/validation"
)

// MediaGenerator generates realistic Instagram users, media and comments for testing
type MediaGenerator struct {
	rand      *rand.Rand
	now       time.Time
	nextID    int64
	usernames []string
	tags      []string
	filters   []string
	captions  []string
	remarks   []string
	places    []types.Location
}

// NewMediaGenerator creates a new media generator. A zero seed uses the clock.
func NewMediaGenerator(seed int64) *MediaGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &MediaGenerator{
		rand:   rand.New(rand.NewSource(seed)),
		now:    time.Now(),
		nextID: 1000000,
		usernames: []string{
			"snoopdogg", "mountain.light", "street_eats", "daily.dose",
			"coastal_frames", "urban.jungle", "slow_travel", "film.grain",
			"studio_nine", "late.bloomer", "north_shore", "quiet.hours",
		},
		tags: []string{
			"snow", "sunset", "travel", "food", "nofilter", "tbt",
			"latergram", "coffee", "citylife", "nature", "art", "summer",
		},
		filters: []string{
			"Normal", "Valencia", "Earlybird", "X-Pro II", "Lo-fi",
			"Amaro", "Rise", "Hudson", "Sierra", "Willow",
		},
		captions: []string{
			"First light over the ridge",
			"Could eat this every day",
			"Back where it all started",
			"Saturday plans",
			"Some days are just better",
			"Found this on the walk home",
		},
		remarks: []string{
			"Stunning shot",
			"Where is this?",
			"Need to go back here",
			"Love the colors",
			"This made my day",
			"Wow",
		},
		places: []types.Location{
			{ID: "514276", Name: "Golden Gate Bridge", Latitude: 37.8199, Longitude: -122.4783},
			{ID: "213385402", Name: "Shibuya Crossing", Latitude: 35.6595, Longitude: 139.7005},
			{ID: "2593354", Name: "Tower Bridge", Latitude: 51.5055, Longitude: -0.0754},
		},
	}
}

// GenerateUser creates a user with counters
func (mg *MediaGenerator) GenerateUser() types.User {
	username := mg.randElement(mg.usernames)
	return types.User{
		ID:             mg.newID(),
		Username:       username,
		FullName:       strings.NewReplacer(".", " ", "_", " ").Replace(username),
		ProfilePicture: fmt.Sprintf("https://scontent.cdninstagram.com/%s.jpg", username),
		Counts: &types.Counts{
			Media:      mg.rand.Intn(2000),
			Follows:    mg.rand.Intn(1000),
			FollowedBy: mg.rand.Intn(100000),
		},
	}
}

// GenerateMedia creates an image post with a caption, hashtags and counters
func (mg *MediaGenerator) GenerateMedia() types.Media {
	owner := mg.GenerateUser()
	created := mg.createdTime()
	tags := mg.pickTags(mg.rand.Intn(4))

	caption := mg.randElement(mg.captions)
	for _, tag := range tags {
		caption += " #" + tag
	}

	id := mg.newID() + "_" + owner.ID
	media := types.Media{
		ID:          id,
		User:        owner,
		CreatedTime: created,
		Caption: &types.Comment{
			ID:          mg.newID(),
			Text:        caption,
			From:        owner,
			CreatedTime: created,
		},
		Likes:    types.Count{Count: mg.rand.Intn(5000)},
		Comments: types.Count{Count: mg.rand.Intn(200)},
		Tags:     tags,
		Filter:   mg.randElement(mg.filters),
		Type:     validation.MediaTypeImage,
		Link:     "https://www.instagram.com/p/" + mg.shortcode() + "/",
		Images:   mg.images(id),
	}

	if mg.rand.Float32() < 0.3 {
		place := mg.places[mg.rand.Intn(len(mg.places))]
		media.Location = &place
	}
	return media
}

// GenerateMediaList creates count media objects with distinct ids
func (mg *MediaGenerator) GenerateMediaList(count int) []types.Media {
	media := make([]types.Media, count)
	for i := range media {
		media[i] = mg.GenerateMedia()
	}
	return media
}

// GenerateComments creates count comments by random users
func (mg *MediaGenerator) GenerateComments(count int) []types.Comment {
	comments := make([]types.Comment, count)
	for i := range comments {
		text := mg.randElement(mg.remarks)
		if mg.rand.Float32() < 0.25 {
			text += " #" + mg.randElement(mg.tags)
		}
		comments[i] = types.Comment{
			ID:          mg.newID(),
			Text:        text,
			From:        mg.GenerateUser(),
			CreatedTime: mg.createdTime(),
		}
	}
	return comments
}

// GenerateTags creates count tags with media counts
func (mg *MediaGenerator) GenerateTags(count int) []types.Tag {
	names := mg.pickTags(count)
	tags := make([]types.Tag, len(names))
	for i, name := range names {
		tags[i] = types.Tag{Name: name, MediaCount: mg.rand.Intn(10000000)}
	}
	return tags
}

func (mg *MediaGenerator) newID() string {
	mg.nextID += int64(1 + mg.rand.Intn(1000))
	return strconv.FormatInt(mg.nextID, 10)
}

// createdTime returns a unix timestamp string within the last 30 days.
func (mg *MediaGenerator) createdTime() string {
	age := time.Duration(mg.rand.Int63n(int64(30 * 24 * time.Hour)))
	return strconv.FormatInt(mg.now.Add(-age).Unix(), 10)
}

func (mg *MediaGenerator) pickTags(n int) []string {
	if n > len(mg.tags) {
		n = len(mg.tags)
	}
	picked := make([]string, 0, n)
	for _, i := range mg.rand.Perm(len(mg.tags))[:n] {
		picked = append(picked, mg.tags[i])
	}
	return picked
}

func (mg *MediaGenerator) shortcode() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	code := make([]byte, 11)
	for i := range code {
		code[i] = chars[mg.rand.Intn(len(chars))]
	}
	return string(code)
}

func (mg *MediaGenerator) images(id string) types.Images {
	rendition := func(size int) types.Resolution {
		return types.Resolution{
			Width:  size,
			Height: size,
			URL:    fmt.Sprintf("https://scontent.cdninstagram.com/s%dx%d/%s.jpg", size, size, id),
		}
	}
	return types.Images{
		Thumbnail:          rendition(150),
		LowResolution:      rendition(320),
		StandardResolution: rendition(640),
	}
}

func (mg *MediaGenerator) randElement(slice []string) string {
	return slice[mg.rand.Intn(len(slice))]
}
