package test_utils

import (
	"fmt"
	"strings"

	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/validation"
	"github.com/jamesprial/go-instagram-api-wrapper/test_helpers"
)

func AssertValidUser(user types.User) error {
	return validation.ValidateUser(&user)
}

func AssertValidMedia(media types.Media) error {
	return validation.ValidateMedia(&media)
}

func AssertValidComment(comment types.Comment) error {
	return validation.ValidateComment(&comment)
}

// AssertMediaListValid validates every media object and checks for duplicate ids
func AssertMediaListValid(media []types.Media) error {
	seenIDs := make(map[string]bool)
	for i, m := range media {
		if err := AssertValidMedia(m); err != nil {
			return fmt.Errorf("media at index %d is invalid: %v", i, err)
		}
		if seenIDs[m.ID] {
			return fmt.Errorf("duplicate media ID found at index %d: %s", i, m.ID)
		}
		seenIDs[m.ID] = true
	}
	return nil
}

// AssertCommentListValid validates every comment and checks for duplicate ids
func AssertCommentListValid(comments []types.Comment) error {
	seenIDs := make(map[string]bool)
	for i, c := range comments {
		if err := AssertValidComment(c); err != nil {
			return fmt.Errorf("comment at index %d is invalid: %v", i, err)
		}
		if seenIDs[c.ID] {
			return fmt.Errorf("duplicate comment ID found at index %d: %s", i, c.ID)
		}
		seenIDs[c.ID] = true
	}
	return nil
}

// AssertMediaOwnedBy checks that the owner id is the suffix of a "<media>_<owner>" id
func AssertMediaOwnedBy(media types.Media) error {
	_, owner, ok := strings.Cut(media.ID, "_")
	if !ok {
		return fmt.Errorf("media ID %s carries no owner", media.ID)
	}
	if owner != media.User.ID {
		return fmt.Errorf("media ID %s names owner %s, user is %s", media.ID, owner, media.User.ID)
	}
	return nil
}

// AssertCaptionTagsListed checks that every hashtag in the caption appears in Tags
func AssertCaptionTagsListed(media types.Media) error {
	if media.Caption == nil {
		return nil
	}
	listed := make(map[string]bool, len(media.Tags))
	for _, tag := range media.Tags {
		listed[strings.ToLower(tag)] = true
	}
	for _, word := range strings.Fields(media.Caption.Text) {
		if tag, ok := strings.CutPrefix(word, "#"); ok && tag != "" && !listed[strings.ToLower(tag)] {
			return fmt.Errorf("caption hashtag #%s missing from Tags %v", tag, media.Tags)
		}
	}
	return nil
}

// AssertRequestToken checks that a logged request carried exactly the given
// access token in its query and nowhere in its body
func AssertRequestToken(entry test_helpers.RequestEntry, token string) error {
	values := entry.Query["access_token"]
	if len(values) != 1 {
		return fmt.Errorf("expected one access_token parameter, got %d", len(values))
	}
	if values[0] != token {
		return fmt.Errorf("expected access_token %q, got %q", token, values[0])
	}
	if !strings.HasPrefix(entry.RawQuery, "access_token=") {
		return fmt.Errorf("access_token is not the first query parameter: %s", entry.RawQuery)
	}
	if strings.Contains(entry.Body, "access_token") {
		return fmt.Errorf("access_token leaked into the request body")
	}
	return nil
}

// AssertErrorKind validates that an error carries the expected kind
func AssertErrorKind(err error, expected pkgerrs.Kind) error {
	if err == nil {
		return fmt.Errorf("expected error of kind %s, got nil", expected)
	}
	if actual := pkgerrs.KindOf(err); actual != expected {
		return fmt.Errorf("expected error kind %s, got %s: %v", expected, actual, err)
	}
	return nil
}

// AssertErrorMessage validates that an error message contains expected text
func AssertErrorMessage(err error, expectedMessage string) error {
	if err == nil {
		return fmt.Errorf("expected error containing message '%s', got nil", expectedMessage)
	}

	if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(expectedMessage)) {
		return fmt.Errorf("expected error message containing '%s', got '%s'", expectedMessage, err.Error())
	}

	return nil
}
