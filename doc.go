// Package instagram is a Go client for the Instagram API that signs users in
// with the OAuth implicit grant.
//
// # Overview
//
// The client presents Instagram's authorization page on a browsing surface,
// watches the surface's navigations for the redirect that carries the access
// token, and stores the token in the OS keyring. Every API call then reads the
// stored token, appends it to the request and unwraps the response envelope.
//
// # Features
//
//   - Implicit-grant login over any browsing surface (webauth.Surface)
//   - Token persistence in the OS keyring, an encrypted file, or memory
//   - Generic request pipeline with envelope decoding into typed results
//   - Typed helpers for users, relationships, media, comments, likes, tags and locations
//   - Structured logging support via Go's slog package; tokens are never logged
//   - Parallel fetching for bulk media lookups
//
// # Quick Start
//
// Register an application with Instagram and configure its client id and
// redirect URI:
//
//	config := &instagram.Config{
//		ClientID:    "your-client-id",
//		RedirectURI: "http://localhost:8765/callback",
//	}
//
//	client, err := instagram.NewClient(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if !client.IsAuthenticated() {
//		if err := client.Login(ctx, types.ScopeBasic, types.ScopeLikes); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The identity can also be read from a YAML file and the environment:
//
//	cc, err := instagram.LoadClientConfig("instagram.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := instagram.NewClient(instagram.ConfigFrom(cc))
//
// # Login
//
// Login builds the authorization URL (client_id, redirect_uri,
// response_type=token and the requested scopes joined by "+"), presents it,
// and blocks until one of:
//
//   - a navigation carries "access_token=" in its fragment: the token is stored
//   - the authorization server answers a navigation with HTTP 400: the login is rejected
//   - the user dismisses the surface, or ctx ends: the login is cancelled
//
// The default surface, webauth.LoopbackSurface, serves the redirect URI on the
// loopback interface and opens the system browser. GUI hosts implement
// webauth.Surface on their own web view instead. StartLogin runs the same flow
// without blocking the caller.
//
// # Making Calls
//
// Typed helpers cover the documented endpoints:
//
//	me, err := client.Me(ctx)
//	page, err := client.RecentMedia(ctx, &types.RecentMediaRequest{Count: types.Int(10)})
//	for _, m := range page.Items {
//		fmt.Println(m.ID, m.Link)
//	}
//
// Anything else goes through the generic pipeline:
//
//	tags, err := instagram.Call[[]types.Tag](ctx, client,
//		types.Get("/tags/search", types.NewParams().Set("q", "snow")))
//
// GET and DELETE send parameters in the query string after access_token;
// POST sends them form-encoded in the body. The HTTP status never decides
// success: the envelope does. A response with "data" succeeds; one with
// meta.error_message fails with an APIError.
//
// # Pagination
//
// List helpers return a Page whose NextURL and NextMaxID copy the envelope's
// pagination block. The client never follows them; pass NextMaxID back as the
// request's MaxID to fetch the next page:
//
//	req := &types.RecentMediaRequest{}
//	for {
//		page, err := client.RecentMedia(ctx, req)
//		if err != nil || !page.HasMore() {
//			break
//		}
//		req.MaxID = types.String(page.NextMaxID)
//	}
//
// # Error Handling
//
// Every error carries a kind, read with errors.KindOf from the pkg/errors package:
//
//	_, err := client.Me(ctx)
//	switch errors.KindOf(err) {
//	case errors.KindMissingClientConfig:
//		// ClientID or RedirectURI not set
//	case errors.KindCancelled:
//		// login dismissed or context ended
//	case errors.KindInvalidRequest:
//		// the server rejected the request, or the input was invalid
//	case errors.KindDecoding:
//		// the response was not a valid envelope
//	case errors.KindKeychain:
//		// the token could not be stored
//	case errors.KindTransport:
//		// the request never got a response
//	}
//
// # Logging
//
// Enable debug logging by providing a logger in the config:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//		Level: slog.LevelDebug,
//	}))
//
//	config := &instagram.Config{
//		// ... other config ...
//		Logger: logger,
//	}
//
// # Security Considerations
//
// The access token is a bearer credential:
//   - It is stripped from URLs in errors and log records
//   - The default store keeps it in the OS keyring, never on disk in clear
//   - credstore.FileStore encrypts it with a passphrase-derived key for headless hosts
//   - A caller-supplied access_token parameter is dropped in favour of the stored one
package instagram
