// Package screenshot captures device screens into short-lived local files.
//
// Capture issues the on-device capture, pulls the file, and always issues the
// remote delete, logging and swallowing individual command failures. Whether
// a capture succeeded is decided solely by the existence of the local file.
// The returned Screenshot is owned by the caller, who must Release it on every
// exit path.
package screenshot
