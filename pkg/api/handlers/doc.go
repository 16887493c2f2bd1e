// Package handlers implements the routes of the story API.
//
// Routes:
//
//	GET  /                    service name, provider tier and model
//	GET  /health              liveness
//	GET  /api/random          random story parameters
//	GET  /api/stats           admission ledger snapshot
//	POST /api/generate-story  admission check, generation, cost correction
//
// # Story generation
//
// GenerateStory runs these steps in order:
//
//  1. Decode the JSON body (400 on malformed input)
//  2. Check the requested length (400)
//  3. Ask the admission controller (429 with Retry-After on rejection)
//  4. Generate the story (500 on upstream failure)
//  5. Charge the actual token cost to the daily budget
//  6. Journal the outcome and respond
//
// Step 5 runs exactly once for every admitted request that reached the
// provider, with zero tokens when the provider failed.
package handlers
