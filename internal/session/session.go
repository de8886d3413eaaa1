package session

import "github.com/wannazaw/classroom-client/internal/model"

// Session is the client-held record of an authenticated user: the profile
// plus the credentials the server handed out at login. An empty access token
// means there is no session.
type Session struct {
	User         model.User
	AccessToken  string
	RefreshToken string
}
