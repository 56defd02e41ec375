package repository

import (
	"context"
	"errors"

	"eshopClient/models"
)

type AuthRepository interface {
	Signin(ctx context.Context, creds models.Credentials) (models.SigninResponse, error)
	Signup(ctx context.Context, req models.SignupRequest) (string, error)
	Profile(ctx context.Context) (models.ProfileResponse, error)
}

type AuthRepo struct {
	client *Client
}

func NewAuthRepository(client *Client) (AuthRepository, error) {
	if client == nil {
		return nil, errors.New("client must be non-nil")
	}
	return &AuthRepo{client: client}, nil
}

// Signin posts credentials. The backend omits the success flag on a good
// signin, so the presence of the token is the success criterion.
func (a *AuthRepo) Signin(ctx context.Context, creds models.Credentials) (resp models.SigninResponse, err error) {
	err = a.client.do(ctx, "POST", "/auth/signin", nil, creds, &resp)
	if err != nil {
		return
	}
	if resp.Token == "" {
		message := resp.Error
		err = models.NewAPIError(models.ErrUnauthorized, message)
	}
	return
}

func (a *AuthRepo) Signup(ctx context.Context, req models.SignupRequest) (message string, err error) {
	var resp models.Envelope
	err = a.client.doEnvelope(ctx, "POST", "/auth/signup", nil, req, &resp)
	if err != nil {
		return
	}
	message = resp.Message
	return
}

func (a *AuthRepo) Profile(ctx context.Context) (resp models.ProfileResponse, err error) {
	err = a.client.do(ctx, "GET", "/auth/profile", nil, nil, &resp)
	return
}
