// Package server exposes the resolver over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [ChiRouter] implements it on a chi mux;
// unmatched routes answer {"error":"Not Found"}.
//
// [Middleware] runs in the order added. [Server] installs, in order: [RequestID], [RealIP], [Recoverer],
// [RequestLogger] and, when configured, a global token bucket via [RateLimit].
//
// # Handler Interface
//
// Handlers implement [Handler], returning their [Route] list so route definitions stay with the implementation.
// [ResolverHandler] serves:
//
//	GET /                                  service description
//	GET /playlist?url=  /playlist/{id}     transformed playlist
//	GET /playlist/full?url=  /playlist/full/{id}
//	GET /recommendations?url=  /recommendations/{id}
//	GET /recommendations/full?url=  /recommendations/full/{id}
//
// Full variants need client credentials as client_id/client_secret query parameters or X-Client-ID /
// X-Client-Secret (or X-Spotify-Client-*) headers.
//
// # Errors
//
// Every error body is {"error": message}. [StatusFor] maps bad input and missing credentials to 400,
// upstream failures to 502 and anything else to 500.
package server
