// Package credential carries the session cookies the platform's web API
// expects. Operations that need a specific secret call the matching guard
// before issuing any request.
package credential

import (
	"errors"
	"strings"
)

var (
	ErrNoSessdata    = errors.New("credential: SESSDATA is required for this operation")
	ErrNoBiliJct     = errors.New("credential: bili_jct is required for this operation")
	ErrNoBuvid3      = errors.New("credential: buvid3 is required for this operation")
	ErrNoDedeUserID  = errors.New("credential: DedeUserID is required for this operation")
	ErrNoAcTimeValue = errors.New("credential: ac_time_value is required for this operation")
)

// Credential holds the session secrets issued at login. The zero value is a
// valid anonymous credential; a nil *Credential behaves the same way.
type Credential struct {
	Sessdata    string
	BiliJct     string
	Buvid3      string
	DedeUserID  string
	AcTimeValue string
}

func (c *Credential) RequireSessdata() error {
	if c == nil || c.Sessdata == "" {
		return ErrNoSessdata
	}
	return nil
}

func (c *Credential) RequireBiliJct() error {
	if c == nil || c.BiliJct == "" {
		return ErrNoBiliJct
	}
	return nil
}

func (c *Credential) RequireBuvid3() error {
	if c == nil || c.Buvid3 == "" {
		return ErrNoBuvid3
	}
	return nil
}

func (c *Credential) RequireDedeUserID() error {
	if c == nil || c.DedeUserID == "" {
		return ErrNoDedeUserID
	}
	return nil
}

func (c *Credential) RequireAcTimeValue() error {
	if c == nil || c.AcTimeValue == "" {
		return ErrNoAcTimeValue
	}
	return nil
}

// CSRF returns the cross-site-request token, empty for anonymous sessions.
func (c *Credential) CSRF() string {
	if c == nil {
		return ""
	}
	return c.BiliJct
}

// Cookie renders the secrets as a Cookie header value, skipping unset ones.
func (c *Credential) Cookie() string {
	if c == nil {
		return ""
	}
	pairs := make([]string, 0, 4)
	for _, kv := range [][2]string{
		{"SESSDATA", c.Sessdata},
		{"bili_jct", c.BiliJct},
		{"buvid3", c.Buvid3},
		{"DedeUserID", c.DedeUserID},
	} {
		if kv[1] != "" {
			pairs = append(pairs, kv[0]+"="+kv[1])
		}
	}
	return strings.Join(pairs, "; ")
}
