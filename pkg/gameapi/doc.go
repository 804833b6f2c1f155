// Package gameapi is a client for the word tower game service.
//
// The service hands each player a word inventory and a map size, accepts
// word placements for the player's current tower, and scores finished
// towers. All requests carry the player token in the X-Auth-Token header.
//
//	client, err := gameapi.NewClient(gameapi.Options{
//	    BaseURL: "https://games-test.datsteam.dev",
//	    Token:   token,
//	})
//	words, err := client.Words(ctx)
//	...
//	_, err = client.Build(ctx, gameapi.BuildRequest{
//	    Done:  true,
//	    Words: gameapi.CommandsFromPlacements(placements),
//	})
//
// # Errors
//
// Failures carry codes from the errors package:
//
//   - UNAUTHORIZED for 401 and 403
//   - RATE_LIMITED for 429 (retried, honoring Retry-After)
//   - NETWORK_ERROR or TIMEOUT for transport failures and 5xx (retried)
//   - OUT_OF_BOUNDS when the service reports a word leaving the map
//   - GAME_REJECTED for every other refusal
//
// [Rejection] exposes the status and message of a refusal, and for
// OUT_OF_BOUNDS the parsed word and end points.
package gameapi
