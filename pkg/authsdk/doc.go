// Package authsdk is the Go client for the studyden auth service.
//
// The Client wraps every outgoing request with transparent session refresh:
// when a request bounces with a refresh-eligible 401, one goroutine refreshes
// the session while any concurrent detectors wait for the same outcome, and
// every caller replays its original request exactly once. Credentials live in
// an http.CookieJar as HttpOnly cookies; the client never reads or stores
// token contents itself.
package authsdk
