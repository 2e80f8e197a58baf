package gohighlevel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ednsy/leadrosetta/internal/entity"
)

// OAuth exchanges and revokes GoHighLevel delegated tokens. This is the one
// provider in the set whose tokens expire and carry a refresh token.
type OAuth struct {
	tokenURL     string
	clientID     string
	clientSecret string
	http         *http.Client
}

func NewOAuth(clientID, clientSecret string) *OAuth {
	return &OAuth{
		tokenURL:     "https://services.leadconnectorhq.com/oauth/token",
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         &http.Client{Timeout: 15 * time.Second},
	}
}

func NewOAuthWithTokenURL(clientID, clientSecret, tokenURL string) *OAuth {
	o := NewOAuth(clientID, clientSecret)
	o.tokenURL = tokenURL
	return o
}

func (o *OAuth) Refresh(ctx context.Context, refreshToken string) (*entity.TokenData, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", o.clientID)
	form.Set("client_secret", o.clientSecret)

	req, err := http.NewRequestWithContext(ctx, "POST", o.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gohighlevel token refresh: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("gohighlevel token refresh decode: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || tok.AccessToken == "" {
		msg := tok.ErrorDesc
		if msg == "" {
			msg = tok.Error
		}
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("gohighlevel token refresh rejected: %s", msg)
	}

	return &entity.TokenData{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    tok.ExpiresIn,
		Scope:        tok.Scope,
		TokenType:    tok.TokenType,
	}, nil
}

// Revoke is best-effort; the caller deletes the local record regardless.
func (o *OAuth) Revoke(ctx context.Context, accessToken string) error {
	form := url.Values{}
	form.Set("token", accessToken)
	form.Set("client_id", o.clientID)
	form.Set("client_secret", o.clientSecret)

	revokeURL := strings.TrimSuffix(o.tokenURL, "/token") + "/revoke"
	req, err := http.NewRequestWithContext(ctx, "POST", revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("gohighlevel revoke: status %d", resp.StatusCode)
	}
	return nil
}
