// Package vote wraps the vote lookup the post builder needs.
package vote

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bilikit/bilikit/client"
)

// Vote wraps a vote id. The title is fetched on first use and kept for the
// lifetime of the handle.
type Vote struct {
	ID int64

	client *client.Client
	title  string
}

func New(c *client.Client, id int64) *Vote {
	return &Vote{ID: id, client: c}
}

// Title returns the vote's title, fetching it once.
func (v *Vote) Title() (string, error) {
	if v.title != "" {
		return v.title, nil
	}

	data, err := v.client.Call("vote.info.info", client.Params{
		Query: map[string]string{"vote_id": strconv.FormatInt(v.ID, 10)},
	}, nil)
	if err != nil {
		return "", err
	}

	var result struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("vote info: decode: %w", err)
	}

	v.title = result.Info.Title
	return v.title, nil
}
