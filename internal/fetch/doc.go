// Package fetch is the page fetch pipeline: it issues HTML GET requests,
// decodes and parses the response, extracts the configured container
// fragment and title, and commits the result to the content cache.
//
// Concurrent resolves for the same URL are deduplicated to a single
// in-flight request; every waiter settles from that request's outcome
// and receives the identical cached entry. The loading notification
// fires once per underlying request, not once per waiter, and never on
// a cache hit.
//
// Built on the same libraries the rest of the stack uses: resty over a
// retryable transport for the wire, goquery and htmlquery for parsing
// and selection, chardet plus x/text for charset handling, mimetype for
// sniffing untyped responses, and bluemonday for the optional
// sanitization pass.
package fetch
