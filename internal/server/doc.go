// Package server provides HTTP routing, middleware, OAuth callback
// handling, and the token exchange gateway.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// During login a temporary HTTP server starts on localhost, handles the
// callback, and shuts down after receiving the OAuth token.
//
// # Token Exchange Gateway
//
// [TokenExchangeHandler] serves two endpoints:
//   - POST /token-exchange/authorization-code : trades {"code": ...} for
//     {"accessToken": ...}
//   - POST /token-exchange/client-credentials : issues an application
//     token as {"accessToken": ..., "expiresInSeconds": ...}
//
// The client id and secret are injected at construction and used only for
// basic auth against the authorization server. No response, log line, or
// error message ever contains the secret; upstream failures relay only the
// upstream error description.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
