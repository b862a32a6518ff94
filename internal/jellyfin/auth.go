package jellyfin

import (
	"context"
	"net/http"
)

type authRequest struct {
	Username string `json:"Username"`
	Pw       string `json:"Pw"`
}

type authResponse struct {
	User struct {
		ID   string `json:"Id"`
		Name string `json:"Name"`
	} `json:"User"`
	SessionInfo struct {
		ID string `json:"Id"`
	} `json:"SessionInfo"`
	AccessToken string `json:"AccessToken"`
	ServerID    string `json:"ServerId"`
}

// AuthResult is a successful login.
type AuthResult struct {
	UserID    string
	UserName  string
	Token     string
	SessionID string
	ServerID  string
}

// Authenticate logs in with a username and password. The returned token is
// passed to WithCredentials for later clients.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	var resp authResponse
	err := c.Request(ctx, http.MethodPost, "/Users/AuthenticateByName", nil,
		authRequest{Username: username, Pw: password}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" || resp.User.ID == "" {
		return nil, &RequestError{
			Op:     OpDecode,
			Method: http.MethodPost,
			Path:   "/Users/AuthenticateByName",
			Err:    &FieldError{Object: "authentication result", Key: "AccessToken", Problem: MissingKey},
		}
	}
	c.logger.Info("authenticated", "user", resp.User.Name, "user_id", resp.User.ID)
	return &AuthResult{
		UserID:    resp.User.ID,
		UserName:  resp.User.Name,
		Token:     resp.AccessToken,
		SessionID: resp.SessionInfo.ID,
		ServerID:  resp.ServerID,
	}, nil
}
