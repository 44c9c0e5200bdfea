// Package sessionsdk is the client SDK for the Quill session service.
//
// The entry point for most programs is SessionManager, which owns an
// AuthStore (observable, durable session state) and a RefreshCoordinator
// (single-flight token renewal). Requests sent through SessionManager.Do
// carry the session's access token and are transparently retried once after
// a renewal when the server answers 401.
//
// Basic usage:
//
//	client := sessionsdk.NewSDKClient("https://quill.example.com")
//	manager := sessionsdk.NewSessionManager(client, sessionsdk.NewFileStorage(path))
//
//	if err := manager.Login(ctx, "alice", "secret"); err != nil { ... }
//
//	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
//	resp, err := manager.Do(ctx, req)
//
// A SessionManager is safe for concurrent use. Overlapping requests that all
// hit an expired access token share exactly one renewal round-trip.
package sessionsdk
