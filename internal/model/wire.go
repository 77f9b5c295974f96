// ABOUTME: Request and response bodies of the remote service that are not entities
// ABOUTME: Launch requests, lock verification and upload results

package model

// OpenKind tells the remote service what is being launched.
type OpenKind string

// Open kinds
const (
	OpenApp    OpenKind = "app"
	OpenBook   OpenKind = "book"
	OpenSecret OpenKind = "secret"
	OpenURL    OpenKind = "url"
)

// OpenRequest asks the remote service to launch a target. It is fire-and-forget.
type OpenRequest struct {
	Type   OpenKind `json:"type"`
	URL    string   `json:"url"`
	IsPath bool     `json:"isPath"`
}

// Key identifies a launch for duplicate suppression.
func (r OpenRequest) Key() string {
	path := "0"
	if r.IsPath {
		path = "1"
	}
	return string(r.Type) + "|" + path + "|" + r.URL
}

// LockRequest is the body of a lock code verification.
type LockRequest struct {
	Code string `json:"code"`
}

// LockResponse reports whether the code matched. Token is set on success
// when the service issues unlock tokens.
type LockResponse struct {
	Valid bool   `json:"valid"`
	Token string `json:"token,omitempty"`
}

// UploadResponse identifies an uploaded file.
type UploadResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
