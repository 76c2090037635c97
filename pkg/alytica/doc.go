// Package alytica is a client for the alytica analytics collection API.
//
// # Overview
//
// A Client turns three kinds of calls into envelopes and posts them to
// {APIURL}/track:
//
//   - Track records a named action with properties
//   - Identify attaches properties to a user id
//   - Alias links a distinct id to another identifier
//
// Every request carries the alytica-client-id header, plus
// alytica-client-secret when a secret is configured.
//
// # Basic Usage
//
//	client, err := alytica.New(alytica.ClientConfig{
//	    ClientID:     "web-app",
//	    ClientSecret: os.Getenv("ALYTICA_CLIENT_SECRET"),
//	    APIURL:       "https://api.alytica.example",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client.SetGlobalProperties(alytica.Properties{"app_version": "1.4.2"})
//	client.SetDistinctID("anon-42")
//
//	err = client.Track(ctx, "signup_clicked", alytica.Properties{"plan": "pro"})
//
// # Property Merging
//
// Track builds properties in three layers, each overriding the previous:
//
//  1. distinctId (from the call's properties, else the client's) and processProfiles
//  2. global properties
//  3. the call's properties
//
// Identify uses the last two layers only. Merges are shallow.
//
// # Disabled Clients
//
// A client built with Disabled set never contacts the network. Every send
// returns nil.
//
// # Errors
//
// The client does not validate events or retry. Transport failures are
// returned as is; use pkg/alytica/errors to categorize them:
//
//	if err := client.Track(ctx, "x", nil); err != nil && alyerrors.IsRetryable(err) {
//	    client.Enqueue(alytica.NewTrackEnvelope(...))
//	}
//
// # Queue
//
// Enqueue holds envelopes until Flush (or Ready) sends them. Track, Identify
// and Alias never enqueue.
//
// # Observability
//
// With Debug set, each outgoing envelope is logged through the logger given
// to WithLogger (a stderr text logger by default). WithMetrics and WithTracing
// enable OpenTelemetry instruments on the global providers.
package alytica
