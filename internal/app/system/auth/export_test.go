package auth

import "net/http"

// SignIn marks the session as authenticated for userID. Sessions are
// issued by the account service; tests use this to mint a cookie.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		return err
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}
