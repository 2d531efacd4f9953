// Package server provides the HTTP routing, middleware and handlers behind "moviebot proxy serve".
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # TMDB Proxy
//
// [TMDBProxy] serves the same-origin routes the clients call and forwards them upstream with the API key
// appended, so the key never leaves the server:
//
//	/api/tmdb/trending     -> /trending/movie/week
//	/api/tmdb/search?q=    -> /search/multi?query=
//	/api/tmdb/movie/{id}   -> /movie/{id}?append_to_response=credits,keywords,images
//
// Successful upstream bodies are stored in a [ResponseCache] for a configurable TTL. The sqlite
// movie_cache table and redis both implement it.
//
// # Middleware
//
//   - [Recover] turns panics into 500 responses
//   - [Logging] writes one log line per request and feeds [Metrics]
//   - [RateLimit] is a single token bucket returning 429 with Retry-After
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
