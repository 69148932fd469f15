// Package user covers the account lookups the dynamic module depends on:
// display-name resolution, the acting user's own profile and canonical
// profile info for arbitrary uids.
package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bilikit/bilikit/client"
	"github.com/bilikit/bilikit/credential"
)

var ErrNameNotFound = errors.New("user: no account with that name")

const nameCacheTTL = 48 * time.Hour

// NameToUID resolves a display name to the account's uid. Unknown names
// return ErrNameNotFound. Results go through the client's cache when one is
// configured, since names change rarely and the endpoint is rate-limited
// aggressively.
func NameToUID(c *client.Client, name string) (int64, error) {
	cacheKey := "name2uid:" + name
	if c.Cache != nil {
		if cached, err := c.Cache.Get(cacheKey); err == nil {
			if uid, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return uid, nil
			}
		}
	}

	data, err := c.Call("user.info.name_to_uid", client.Params{
		Query: map[string]string{"names": name},
	}, nil)
	if err != nil {
		return 0, err
	}

	var result struct {
		UIDList []struct {
			Name string `json:"name"`
			UID  int64  `json:"uid"`
		} `json:"uid_list"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return 0, fmt.Errorf("name_to_uid: decode: %w", err)
	}
	if len(result.UIDList) == 0 {
		return 0, ErrNameNotFound
	}

	uid := result.UIDList[0].UID
	if c.Cache != nil {
		_ = c.Cache.Set(cacheKey, strconv.FormatInt(uid, 10), nameCacheTTL)
	}
	return uid, nil
}

// SelfInfo is the acting user's own profile.
type SelfInfo struct {
	Mid   int64  `json:"mid"`
	Name  string `json:"name"`
	Face  string `json:"face"`
	Sign  string `json:"sign"`
	Level int    `json:"level"`
}

// GetSelfInfo fetches the profile behind the session credential.
func GetSelfInfo(c *client.Client, cred *credential.Credential) (*SelfInfo, error) {
	if err := cred.RequireSessdata(); err != nil {
		return nil, err
	}

	data, err := c.Call("user.info.my_info", client.Params{}, cred)
	if err != nil {
		return nil, err
	}

	var info SelfInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("my_info: decode: %w", err)
	}
	return &info, nil
}

// Info is another account's public profile.
type Info struct {
	Mid   int64  `json:"mid"`
	Name  string `json:"name"`
	Face  string `json:"face"`
	Sign  string `json:"sign"`
	Level int    `json:"level"`
}

// User wraps a uid. Constructing one performs no request.
type User struct {
	UID int64

	client *client.Client
	cred   *credential.Credential
}

func New(c *client.Client, uid int64, cred *credential.Credential) *User {
	return &User{UID: uid, client: c, cred: cred}
}

// GetInfo fetches the account's public profile, including the canonical
// display name.
func (u *User) GetInfo() (*Info, error) {
	data, err := u.client.Call("user.info.info", client.Params{
		Query: map[string]string{"mid": strconv.FormatInt(u.UID, 10)},
	}, u.cred)
	if err != nil {
		return nil, err
	}

	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("user info: decode: %w", err)
	}
	return &info, nil
}
