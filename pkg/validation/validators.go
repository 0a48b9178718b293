package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
)

// Regular expressions for validating Instagram data formats
var (
	// numericIDRegex matches user, comment and location ids
	numericIDRegex = regexp.MustCompile(`^[0-9]+$`)

	// mediaIDRegex matches media ids, "<media>_<owner>" or bare digits
	mediaIDRegex = regexp.MustCompile(`^[0-9]+(_[0-9]+)?$`)

	// usernameRegex matches valid usernames (1-30 chars, letters, digits, period, underscore)
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)

	// shortcodeRegex matches the code in a public media link, instagram.com/p/{code}/
	shortcodeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	// tagNameRegex matches hashtags without the leading "#"
	tagNameRegex = regexp.MustCompile(`^[\p{L}\p{N}_]+$`)
)

// Media types reported in Media.Type
const (
	MediaTypeImage    = "image"
	MediaTypeVideo    = "video"
	MediaTypeCarousel = "carousel"
)

// earliestCreated bounds plausible created_time values. It predates the
// public launch because pre-launch content appears in real responses.
var earliestCreated = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)

// IsValidNumericID checks if a string is a valid numeric id
func IsValidNumericID(s string) bool {
	return numericIDRegex.MatchString(s)
}

// IsValidMediaID checks if a string is a valid media id
func IsValidMediaID(s string) bool {
	return mediaIDRegex.MatchString(s)
}

// IsValidUsername checks if a string is a valid Instagram username
func IsValidUsername(s string) bool {
	return usernameRegex.MatchString(s) && !strings.HasPrefix(s, ".") && !strings.HasSuffix(s, ".") && !strings.Contains(s, "..")
}

// IsValidShortcode checks if a string is a valid media shortcode
func IsValidShortcode(s string) bool {
	return shortcodeRegex.MatchString(s)
}

// IsValidTagName checks if a string is a valid tag name without the "#"
func IsValidTagName(s string) bool {
	return tagNameRegex.MatchString(s)
}

// ValidateCreatedTime checks a created_time value: unix seconds as a string,
// not before the service launched and not in the future (one hour grace for clock skew).
func ValidateCreatedTime(s string) error {
	if s == "" {
		return fmt.Errorf("created_time is required")
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("created_time has invalid format: %s", s)
	}
	created := time.Unix(secs, 0)
	if created.Before(earliestCreated) {
		return fmt.Errorf("created_time is before Instagram existed: %s", s)
	}
	if created.After(time.Now().Add(time.Hour)) {
		return fmt.Errorf("created_time is in the future: %s", s)
	}
	return nil
}

// ValidateUser validates a User struct's fields
func ValidateUser(u *types.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	var errs []error

	if u.ID == "" {
		errs = append(errs, fmt.Errorf("ID is required"))
	} else if !IsValidNumericID(u.ID) {
		errs = append(errs, fmt.Errorf("ID has invalid format: %s", u.ID))
	}

	if u.Username == "" {
		errs = append(errs, fmt.Errorf("Username is required"))
	} else if !IsValidUsername(u.Username) {
		errs = append(errs, fmt.Errorf("Username has invalid format: %s", u.Username))
	}

	if u.Counts != nil {
		if u.Counts.Media < 0 || u.Counts.Follows < 0 || u.Counts.FollowedBy < 0 {
			errs = append(errs, fmt.Errorf("Counts cannot be negative: %+v", *u.Counts))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("user validation failed: %w", joinValidationErrors(errs))
	}

	return nil
}

// ValidateComment validates a Comment struct's fields
func ValidateComment(c *types.Comment) error {
	if c == nil {
		return fmt.Errorf("comment is nil")
	}

	var errs []error

	if c.ID == "" {
		errs = append(errs, fmt.Errorf("ID is required"))
	} else if !IsValidNumericID(c.ID) {
		errs = append(errs, fmt.Errorf("ID has invalid format: %s", c.ID))
	}

	if c.Text == "" {
		errs = append(errs, fmt.Errorf("Text is required"))
	}

	if err := ValidateCreatedTime(c.CreatedTime); err != nil {
		errs = append(errs, err)
	}

	if c.From.Username != "" && !IsValidUsername(c.From.Username) {
		errs = append(errs, fmt.Errorf("From has invalid username: %s", c.From.Username))
	}

	if len(errs) > 0 {
		return fmt.Errorf("comment validation failed: %w", joinValidationErrors(errs))
	}

	return nil
}

// ValidateMedia validates a Media struct's fields
func ValidateMedia(m *types.Media) error {
	if m == nil {
		return fmt.Errorf("media is nil")
	}

	var errs []error

	if m.ID == "" {
		errs = append(errs, fmt.Errorf("ID is required"))
	} else if !IsValidMediaID(m.ID) {
		errs = append(errs, fmt.Errorf("ID has invalid format: %s", m.ID))
	}

	switch m.Type {
	case MediaTypeImage:
	case MediaTypeVideo:
		if m.Videos == nil {
			errs = append(errs, fmt.Errorf("video media has no Videos"))
		}
	case MediaTypeCarousel:
		if len(m.CarouselMedia) == 0 {
			errs = append(errs, fmt.Errorf("carousel media has no CarouselMedia"))
		}
	default:
		errs = append(errs, fmt.Errorf("Type is invalid: %q", m.Type))
	}

	if err := ValidateCreatedTime(m.CreatedTime); err != nil {
		errs = append(errs, err)
	}

	if m.Likes.Count < 0 || m.Comments.Count < 0 {
		errs = append(errs, fmt.Errorf("counters cannot be negative"))
	}

	for i, tag := range m.Tags {
		if !IsValidTagName(tag) {
			errs = append(errs, fmt.Errorf("Tags[%d] has invalid format: %s", i, tag))
		}
	}

	for i, u := range m.UsersInPhoto {
		if u.Position.X < 0 || u.Position.X > 1 || u.Position.Y < 0 || u.Position.Y > 1 {
			errs = append(errs, fmt.Errorf("UsersInPhoto[%d] position out of range: %+v", i, u.Position))
		}
	}

	if m.Caption != nil {
		if err := ValidateComment(m.Caption); err != nil {
			errs = append(errs, fmt.Errorf("Caption: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("media validation failed: %w", joinValidationErrors(errs))
	}

	return nil
}

// ValidateLocation validates a Location struct's fields
func ValidateLocation(l *types.Location) error {
	if l == nil {
		return fmt.Errorf("location is nil")
	}

	var errs []error

	if l.ID != "" && !IsValidNumericID(l.ID) {
		errs = append(errs, fmt.Errorf("ID has invalid format: %s", l.ID))
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		errs = append(errs, fmt.Errorf("Latitude out of range: %f", l.Latitude))
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		errs = append(errs, fmt.Errorf("Longitude out of range: %f", l.Longitude))
	}

	if len(errs) > 0 {
		return fmt.Errorf("location validation failed: %w", joinValidationErrors(errs))
	}

	return nil
}

// joinValidationErrors combines multiple errors into a single error message
func joinValidationErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
