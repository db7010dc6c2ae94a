// Package formctl implements the URL analysis form controller.
//
// A Controller reads the URL input from a Renderer, normalizes it, posts it to the
// analysis endpoint through a Transport and maps the reply (success, pending or
// error) back onto the Renderer's message and result panels. The Renderer and the
// Transport are capabilities, so the same controller drives the server-rendered
// page, the terminal client and the tests.
package formctl
