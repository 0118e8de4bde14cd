// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

/*
Package router wires handlers to HTTP routes.

Routes use Go 1.22 method patterns on the standard ServeMux. Every
route is wrapped with request logging; mutating routes additionally go
through per-client-IP rate limiting sized from the active config.
*/
package router
