package booking

// Session carries the current user into operations that need one.
type Session struct {
	userID UserID
	admin  bool
}

// AnonymousSession returns a session without a user.
func AnonymousSession() Session {
	return Session{}
}

// NewSession validates the user id of an authenticated session.
func NewSession(rawUserID string, roles ...string) (Session, error) {
	userID, err := NewUserID(rawUserID)
	if err != nil {
		return Session{}, err
	}
	session := Session{userID: userID}
	for _, role := range roles {
		if role == RoleAdmin {
			session.admin = true
		}
	}
	return session, nil
}

// RoleAdmin grants host operations on listings and rooms.
const RoleAdmin = "admin"

// Authenticated reports whether the session has a user.
func (session Session) Authenticated() bool {
	return !session.userID.IsZero()
}

// UserID returns the session user.
func (session Session) UserID() UserID {
	return session.userID
}

// IsAdmin reports whether the session may run host operations.
func (session Session) IsAdmin() bool {
	return session.Authenticated() && session.admin
}
