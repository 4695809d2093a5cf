package domain

// Role is the user's entitlement tag. The service models roles as a
// table row, so the name arrives nested under "role".
type Role struct {
	ID   int    `json:"id"`
	Name string `json:"role_name"`
}

// User is the authenticated reader's profile as returned by the service.
// The session holds a read-only reference for its lifetime.
type User struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Credential is the bearer token pair issued at login.
type Credential struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// ReaderPreferences is client-side display state. It survives across
// reader sessions and lives in the local key-value store.
type ReaderPreferences struct {
	FontFamily string `json:"font_family"`
	FontSize   string `json:"font_size"`
	Theme      string `json:"theme"`
}

// DefaultPreferences returns the values used when nothing is stored yet.
func DefaultPreferences() ReaderPreferences {
	return ReaderPreferences{
		FontFamily: "'Roboto', sans-serif",
		FontSize:   "16px",
		Theme:      "light",
	}
}
