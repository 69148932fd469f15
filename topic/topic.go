// Package topic wraps topic references attached to feed posts.
package topic

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bilikit/bilikit/client"
)

// Topic wraps a topic id.
type Topic struct {
	ID int64

	client *client.Client
}

func New(c *client.Client, id int64) *Topic {
	return &Topic{ID: id, client: c}
}

// Info is the topic's metadata as far as the web endpoint documents it.
type Info struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (t *Topic) GetInfo() (*Info, error) {
	data, err := t.client.Call("topic.info.info", client.Params{
		Query: map[string]string{"topic_id": strconv.FormatInt(t.ID, 10)},
	}, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Info Info `json:"topic"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("topic info: decode: %w", err)
	}
	return &result.Info, nil
}
