// Package server is the reference remote service for the launcher.
//
// It serves the JSON API the launcher's sync gateway speaks, under the
// /api prefix, plus a plain /health check:
//
//	GET    /api/state             full snapshot
//	POST   /api/state             replace the full snapshot
//	GET    /api/{apps,books,secrets,notes}
//	POST   /api/{apps,books,secrets,notes}       create; the server assigns the id
//	GET    /api/{apps,books,secrets,notes}/{id}
//	PUT    /api/{apps,books,secrets,notes}/{id}  partial update, returns the entity
//	DELETE /api/{apps,books,secrets,notes}/{id}
//	GET    /api/settings
//	PUT    /api/settings          partial update
//	POST   /api/settings/lock     {code} -> {valid, token}
//	POST   /api/open              {type, url, isPath} -> 204
//	POST   /api/upload            multipart field "file" -> {id, url}
//	GET    /api/files/{id}
//
// Errors are JSON objects of the form {"error": "..."}.
//
// /api/open hands the request to an opener.Opener. Identical requests
// inside the configured dedupe window are acknowledged but launched once.
// With require_unlock_for_open set, /api/open also needs the bearer token
// returned by a successful /api/settings/lock call, and that token must
// carry the "open" scope.
//
// With server.tailscale enabled, Run joins the tailnet through tsnet and
// serves there instead of on http_addr.
//
// Uploaded files are content addressed: the id is the BLAKE2b-256 digest of
// the bytes, so uploading the same image twice yields the same id.
package server
