package user

import "github.com/amiskov/guide-client/pkg/common"

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registered struct {
	UserID common.ID `json:"user_id"`
}

// LoginData is the `data` part of a successful login answer.
type LoginData struct {
	UserID    common.ID `json:"userid"`
	ExpiresIn int       `json:"expires_in"`
	ExpiresAt string    `json:"expires_at"`
	CreatedAt string    `json:"created_at"`
}

type Info struct {
	ID        common.ID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt string    `json:"created_at"`
}
