// Package services implements the movie metadata read contract over the same-origin proxy.
//
// # Catalog Interface
//
// [Catalog] is what the rest of the app consumes: a trending listing, a search listing, and a
// detail record. [TMDBService] implements it by calling the proxy routes
//
//	GET /api/tmdb/trending
//	GET /api/tmdb/search?q=<query>
//	GET /api/tmdb/movie/<id>
//
// Listings are read from the "results" array of the response envelope.
//
// # Raw Access
//
// [APIService] performs the HTTP requests. It optionally waits on a [rate.Limiter] before each
// request and exposes raw responses for the "api get" command.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrMovieNotFound] : 404 from the detail route
//   - [shared.ErrInvalidArgument] : empty query or movie id
//
// The core never calls these directly; callers in package tasks degrade failures to empty results.
package services
