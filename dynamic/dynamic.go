// Package dynamic wraps the platform's "dynamic" (social feed post) web
// module: reading a feed item, listing its reposts and likes, liking,
// deleting and reposting it, building and submitting a composite post, feed
// listing and scheduled-post drafts.
package dynamic

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bilikit/bilikit/client"
	"github.com/bilikit/bilikit/credential"
	"github.com/bilikit/bilikit/picture"
	"github.com/bilikit/bilikit/user"
)

const repostDefaultText = "转发动态"

// Dynamic wraps a feed item id. Constructing one performs no request, and
// no operation caches state on the handle.
type Dynamic struct {
	id     int64
	client *client.Client
	cred   *credential.Credential
}

func New(c *client.Client, id int64, cred *credential.Credential) *Dynamic {
	return &Dynamic{id: id, client: c, cred: cred}
}

func (d *Dynamic) ID() int64 {
	return d.id
}

// GetInfo fetches the feed item. The card and extend_json fields arrive as
// JSON-encoded strings and are decoded here.
func (d *Dynamic) GetInfo() (*Detail, error) {
	data, err := d.client.Call("dynamic.info.detail", client.Params{
		Query: map[string]string{"dynamic_id": strconv.FormatInt(d.id, 10)},
	}, d.cred)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Card struct {
			Desc       json.RawMessage `json:"desc"`
			Card       string          `json:"card"`
			ExtendJSON string          `json:"extend_json"`
		} `json:"card"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("dynamic detail: decode: %w", err)
	}

	detail := &Detail{Desc: resp.Card.Desc}
	if err := json.Unmarshal([]byte(resp.Card.Card), &detail.Card); err != nil {
		return nil, fmt.Errorf("dynamic detail: decode embedded card: %w", err)
	}
	if resp.Card.ExtendJSON != "" {
		if err := json.Unmarshal([]byte(resp.Card.ExtendJSON), &detail.ExtendJSON); err != nil {
			return nil, fmt.Errorf("dynamic detail: decode extend_json: %w", err)
		}
	}
	return detail, nil
}

// GetReposts fetches one page of reposts. Offset "0" (or empty) means the
// first page; anything else must be the cursor from a previous page.
func (d *Dynamic) GetReposts(offset string) (*RepostList, error) {
	params := map[string]string{"dynamic_id": strconv.FormatInt(d.id, 10)}
	if offset != "" && offset != "0" {
		params["offset"] = offset
	}

	data, err := d.client.Call("dynamic.info.repost", client.Params{Query: params}, d.cred)
	if err != nil {
		return nil, err
	}

	var list RepostList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("repost list: decode: %w", err)
	}
	return &list, nil
}

// GetLikes fetches one page of likes.
func (d *Dynamic) GetLikes(pn, ps int) (*LikeList, error) {
	data, err := d.client.Call("dynamic.info.likes", client.Params{
		Query: map[string]string{
			"dynamic_id": strconv.FormatInt(d.id, 10),
			"pn":         strconv.Itoa(pn),
			"ps":         strconv.Itoa(ps),
		},
	}, d.cred)
	if err != nil {
		return nil, err
	}

	var list LikeList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("like list: decode: %w", err)
	}
	return &list, nil
}

// SetLike likes (true) or unlikes (false) the feed item. The endpoint wants
// the acting user's uid, so the session profile is looked up first.
func (d *Dynamic) SetLike(status bool) error {
	if err := d.cred.RequireSessdata(); err != nil {
		return err
	}
	if err := d.cred.RequireBiliJct(); err != nil {
		return err
	}

	self, err := user.GetSelfInfo(d.client, d.cred)
	if err != nil {
		return err
	}

	up := "2"
	if status {
		up = "1"
	}
	_, err = d.client.Call("dynamic.operate.like", client.Params{
		Form: map[string]string{
			"dynamic_id": strconv.FormatInt(d.id, 10),
			"up":         up,
			"uid":        strconv.FormatInt(self.Mid, 10),
		},
	}, d.cred)
	return err
}

// Delete removes the feed item. Irreversible remote-side.
func (d *Dynamic) Delete() error {
	if err := d.cred.RequireSessdata(); err != nil {
		return err
	}

	_, err := d.client.Call("dynamic.operate.delete", client.Params{
		Form: map[string]string{"dynamic_id": strconv.FormatInt(d.id, 10)},
	}, d.cred)
	return err
}

// Repost shares the feed item with a caption, running the caption through
// the mention pipeline. An empty text falls back to the platform's stock
// caption.
func (d *Dynamic) Repost(text string) error {
	if err := d.cred.RequireSessdata(); err != nil {
		return err
	}
	if text == "" {
		text = repostDefaultText
	}

	form, err := textData(d.client, text)
	if err != nil {
		return err
	}
	form["dynamic_id"] = strconv.FormatInt(d.id, 10)

	_, err = d.client.Call("dynamic.operate.repost", client.Params{Form: form}, d.cred)
	return err
}

// Send submits a built post and returns the handle of the created feed
// item.
func Send(c *client.Client, b *Builder, cred *credential.Credential) (*Dynamic, error) {
	if err := b.Err(); err != nil {
		return nil, err
	}
	if err := cred.RequireSessdata(); err != nil {
		return nil, err
	}

	req := sendRequest{
		DynReq: dynReq{
			Content: contentBlock{Contents: b.contents},
			Scene:   b.Scene(),
			Meta: meta{AppMeta: appMeta{
				From:    "create.dynamic.web",
				MobiApp: "web",
			}},
		},
	}
	if len(b.pics) != 0 {
		req.DynReq.Pics = b.pics
	}
	if b.topic != nil {
		req.DynReq.Topic = b.topic
	}
	if len(b.options) != 0 {
		req.DynReq.Option = b.options
	}
	if b.attachCard != nil {
		req.DynReq.AttachCard = &attachCardBlock{CommonCard: *b.attachCard}
	}

	data, err := c.Call("dynamic.send.instant", client.Params{
		Query: map[string]string{"csrf": cred.CSRF()},
		JSON:  req,
	}, cred)
	if err != nil {
		return nil, err
	}

	var result struct {
		DynID int64 `json:"dyn_id"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("send dynamic: decode: %w", err)
	}
	return New(c, result.DynID, cred), nil
}

// UploadImage uploads a local image for use in a post and returns a
// descriptor carrying the remote URL and the dimensions the server reports.
func UploadImage(c *client.Client, pic *picture.Picture, cred *credential.Credential) (*picture.Picture, error) {
	if err := cred.RequireSessdata(); err != nil {
		return nil, err
	}
	if err := cred.RequireBiliJct(); err != nil {
		return nil, err
	}

	data, err := c.Call("dynamic.send.upload_img", client.Params{
		Form:  map[string]string{"biz": "new_dyn", "category": "daily"},
		Files: map[string][]byte{"file_up": pic.Content},
	}, cred)
	if err != nil {
		return nil, err
	}

	var result struct {
		ImageURL    string `json:"image_url"`
		ImageWidth  int    `json:"image_width"`
		ImageHeight int    `json:"image_height"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("upload image: decode: %w", err)
	}
	return &picture.Picture{
		URL:    result.ImageURL,
		Width:  result.ImageWidth,
		Height: result.ImageHeight,
	}, nil
}

// PageOptions selects what GetPageInfo lists. Type wins over HostMID when
// both are set.
type PageOptions struct {
	Type    DynamicType
	HostMID int64
	Page    int
	Offset  string
}

// GetPageInfo fetches one page of the feed and returns id-only handles;
// call GetInfo on a handle when the content is needed.
func GetPageInfo(c *client.Client, cred *credential.Credential, opts PageOptions) ([]*Dynamic, error) {
	page := opts.Page
	if page == 0 {
		page = 1
	}
	params := map[string]string{
		"timezone_offset": "-480",
		"features":        "itemOpusStyle",
		"page":            strconv.Itoa(page),
	}
	if opts.Offset != "" {
		params["offset"] = opts.Offset
	}
	if opts.Type != "" {
		params["type"] = string(opts.Type)
	} else if opts.HostMID != 0 {
		params["host_mid"] = strconv.FormatInt(opts.HostMID, 10)
	}

	data, err := c.Call("dynamic.info.dynamic_page_info", client.Params{Query: params}, cred)
	if err != nil {
		return nil, err
	}

	var feed struct {
		Items []struct {
			IDStr string `json:"id_str"`
		} `json:"items"`
	}
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("feed page: decode: %w", err)
	}

	items := make([]*Dynamic, 0, len(feed.Items))
	for _, item := range feed.Items {
		id, err := strconv.ParseInt(item.IDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("feed page: bad id %q: %w", item.IDStr, err)
		}
		items = append(items, New(c, id, cred))
	}
	return items, nil
}

// GetPageUPsInfo fetches the feed page's creator rail.
func GetPageUPsInfo(c *client.Client, cred *credential.Credential) (json.RawMessage, error) {
	return c.Call("dynamic.info.dynamic_page_ups_info", client.Params{}, cred)
}

// GetNewDynamicUsers lists followed accounts with fresh posts.
func GetNewDynamicUsers(c *client.Client, cred *credential.Credential) (json.RawMessage, error) {
	if err := cred.RequireSessdata(); err != nil {
		return nil, err
	}
	return c.Call("dynamic.info.attention_new_dynamic", client.Params{}, cred)
}

// GetLiveUsers lists followed accounts currently live.
func GetLiveUsers(c *client.Client, size int, cred *credential.Credential) (json.RawMessage, error) {
	if err := cred.RequireSessdata(); err != nil {
		return nil, err
	}
	return c.Call("dynamic.info.attention_live", client.Params{
		Query: map[string]string{"size": strconv.Itoa(size)},
	}, cred)
}

// GetSchedules lists the pending scheduled posts.
func GetSchedules(c *client.Client, cred *credential.Credential) (json.RawMessage, error) {
	if err := cred.RequireSessdata(); err != nil {
		return nil, err
	}
	return c.Call("dynamic.schedule.list", client.Params{}, cred)
}

// SendScheduleNow publishes a scheduled post immediately.
func SendScheduleNow(c *client.Client, draftID int64, cred *credential.Credential) error {
	if err := cred.RequireSessdata(); err != nil {
		return err
	}
	_, err := c.Call("dynamic.schedule.publish_now", client.Params{
		Form: map[string]string{"draft_id": strconv.FormatInt(draftID, 10)},
	}, cred)
	return err
}

// DeleteSchedule removes a scheduled post.
func DeleteSchedule(c *client.Client, draftID int64, cred *credential.Credential) error {
	if err := cred.RequireSessdata(); err != nil {
		return err
	}
	_, err := c.Call("dynamic.schedule.delete", client.Params{
		Form: map[string]string{"draft_id": strconv.FormatInt(draftID, 10)},
	}, cred)
	return err
}
