package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	instagram "github.com/jamesprial/go-instagram-api-wrapper"
	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
)

func main() {
	// Get the application identity from environment variables
	clientID := os.Getenv("INSTAGRAM_CLIENT_ID")
	redirectURI := os.Getenv("INSTAGRAM_REDIRECT_URI")

	if clientID == "" || redirectURI == "" {
		log.Fatal("INSTAGRAM_CLIENT_ID and INSTAGRAM_REDIRECT_URI environment variables are required")
	}

	// Route structured logs to stdout; adjust the level as needed.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Create client configuration
	config := &instagram.Config{
		ClientID:    clientID,
		RedirectURI: redirectURI, // Must be a loopback http URI for the default surface
		UserAgent:   "example-app/1.0 by YourUsername",
		Logger:      logger,
	}

	// Create the client
	client, err := instagram.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	// Log in unless a token from an earlier run is stored
	ctx := context.Background()
	if !client.IsAuthenticated() {
		err := client.Login(ctx, types.ScopeBasic, types.ScopePublicContent, types.ScopeComments)
		switch pkgerrs.KindOf(err) {
		case pkgerrs.KindUnknown:
		case pkgerrs.KindCancelled:
			log.Fatal("Login was cancelled")
		default:
			log.Fatalf("Login failed (%s): %v", pkgerrs.KindOf(err), err)
		}
	}

	fmt.Println("Successfully authenticated with Instagram!")

	me, err := client.Me(ctx)
	if err != nil {
		log.Printf("Failed to get user info: %v", err)
	} else {
		fmt.Printf("Authenticated as user: @%s (%s)\n", me.Username, me.FullName)
		if me.Counts != nil {
			fmt.Printf("Posts: %d, followers: %d\n", me.Counts.Media, me.Counts.FollowedBy)
		}
	}

	// Get our recent media
	recent, err := client.RecentMedia(ctx, &types.RecentMediaRequest{Count: types.Int(5)})
	if err != nil {
		log.Fatalf("Failed to get recent media: %v", err)
	}
	fmt.Println("\nRecent media:")
	for i, media := range recent.Items {
		fmt.Printf("%d. %s (likes: %d, comments: %d)\n",
			i+1, media.Link, media.Likes.Count, media.Comments.Count)
	}
	if recent.HasMore() {
		fmt.Printf("Next max id: %s\n", recent.NextMaxID)
	}

	// Get tag info
	tag, err := client.Tag(ctx, "golang")
	if err != nil {
		log.Printf("Failed to get tag info: %v", err)
	} else {
		fmt.Printf("\nTag: #%s\n", tag.Name)
		fmt.Printf("Media count: %d\n", tag.MediaCount)
	}

	if len(recent.Items) == 0 {
		return
	}

	// Get comments for the newest post
	first := recent.Items[0]
	comments, err := client.Comments(ctx, first.ID)
	if err != nil {
		log.Printf("Failed to get comments: %v", err)
	} else {
		fmt.Printf("\nComments on %s:\n", first.Link)
		for i, comment := range comments {
			if i >= 3 { // Show only first 3 comments
				break
			}
			fmt.Printf("  - @%s: %.100s\n", comment.From.Username, comment.Text)
		}
	}

	fmt.Println("\n=== PAGINATION & BATCH DEMOS ===")

	// 1. Follow the max id cursor by hand
	fmt.Println("\n1. Paging through recent media:")
	req := &types.RecentMediaRequest{Count: types.Int(5)}
	total := 0
	for page := 1; page <= 3; page++ {
		resp, err := client.RecentMedia(ctx, req)
		if err != nil {
			log.Printf("Failed to get page %d: %v", page, err)
			break
		}
		fmt.Printf("   Page %d: %d posts\n", page, len(resp.Items))
		total += len(resp.Items)

		if !resp.HasMore() {
			fmt.Println("   No more pages available")
			break
		}
		req.MaxID = types.String(resp.NextMaxID)
	}
	fmt.Printf("   Total posts fetched: %d\n", total)

	// 2. Fetch several media objects in parallel
	if len(recent.Items) >= 3 {
		fmt.Println("\n2. Batch loading media:")

		ids := []string{recent.Items[0].ID, recent.Items[1].ID, recent.Items[2].ID}
		results, err := client.MediaMultiple(ctx, ids)
		if err != nil {
			log.Printf("Batch loading error: %v", err)
		}
		for i, media := range results {
			if media != nil {
				fmt.Printf("   Media %d: %s - %d likes\n", i+1, media.ID, media.Likes.Count)
			}
		}
	}

	// 3. Send a raw request descriptor
	fmt.Println("\n3. Raw call:")
	likers, err := instagram.Call[[]types.User](ctx, client, types.Get("/media/"+first.ID+"/likes", nil))
	if err != nil {
		log.Printf("Raw call failed: %v", err)
	} else {
		fmt.Printf("   %d users liked %s\n", len(likers), first.ID)
	}
}
