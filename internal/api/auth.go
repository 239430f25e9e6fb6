package api

import (
	"context"
	"net/http"

	"github.com/walloffame/wof/internal/common"
	"github.com/walloffame/wof/internal/models"
)

// Login exchanges email and password for a bearer token. It does not touch
// the session store: on success the caller stores resp.Token before doing
// anything that depends on being logged in.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	return c.authenticate(ctx, "login", loginPath, msgLogin, models.Credentials{
		Email:    email,
		Password: password,
	})
}

// Register creates an account and returns its bearer token. name is
// optional and left out of the request when empty. Like Login, storing the
// token is up to the caller.
func (c *Client) Register(ctx context.Context, email, password, name string) (*models.AuthResponse, error) {
	return c.authenticate(ctx, "register", registerPath, msgRegister, models.Credentials{
		Email:    email,
		Password: password,
		Name:     name,
	})
}

func (c *Client) authenticate(ctx context.Context, op, path, defaultMsg string, creds models.Credentials) (*models.AuthResponse, error) {
	status, body, err := c.do(ctx, call{
		op:         op,
		method:     http.MethodPost,
		path:       path,
		defaultMsg: defaultMsg,
		args: common.HTTPArguments{
			Body: creds,
		},
	})
	if err != nil {
		return nil, err
	}

	var resp models.AuthResponse
	if err := decode(op, status, body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Token) == 0 {
		return nil, &APIError{Op: op, StatusCode: status, Message: defaultMsg}
	}
	return &resp, nil
}
