package dynamic

import "encoding/json"

// DynamicType filters the feed listing.
type DynamicType string

const (
	TypeAll     DynamicType = "all"
	TypeAnime   DynamicType = "pgc"
	TypeArticle DynamicType = "article"
	TypeVideo   DynamicType = "video"
)

// Scene is the coarse classification the submission endpoint routes on.
type Scene int

const (
	SceneText  Scene = 1
	SceneImage Scene = 2
)

// ContentType tags a single content fragment.
type ContentType int

const (
	ContentText  ContentType = 1
	ContentAt    ContentType = 2
	ContentVote  ContentType = 4
	ContentEmoji ContentType = 9
)

// Content is one fragment of a composite post. BizID is fragment-kind
// specific: empty string for text and emoji, the uid for mentions, and the
// vote id as a string for votes. The API wants it string-typed there,
// unlike every other biz id.
type Content struct {
	BizID   any         `json:"biz_id"`
	Type    ContentType `json:"type"`
	RawText string      `json:"raw_text"`
}

// Pic references an already-uploaded image.
type Pic struct {
	ImgSrc    string `json:"img_src"`
	ImgWidth  int    `json:"img_width"`
	ImgHeight int    `json:"img_height"`
}

// AttachCard is a live-reservation card embedded in a post.
type AttachCard struct {
	Type           int   `json:"type"`
	BizID          int64 `json:"biz_id"`
	ReserveSource  int   `json:"reserve_source"`
	ReserveLottery int   `json:"reserve_lottery"`
}

// TopicRef points a post at a topic.
type TopicRef struct {
	ID int64 `json:"id"`
}

// Submission body. AttachCard deliberately has no omitempty: the endpoint
// distinguishes an explicit null from an absent key.
type sendRequest struct {
	DynReq dynReq `json:"dyn_req"`
}

type dynReq struct {
	Content    contentBlock     `json:"content"`
	Scene      Scene            `json:"scene"`
	Meta       meta             `json:"meta"`
	Pics       []Pic            `json:"pics,omitempty"`
	Topic      *TopicRef        `json:"topic,omitempty"`
	Option     map[string]int   `json:"option,omitempty"`
	AttachCard *attachCardBlock `json:"attach_card"`
}

type contentBlock struct {
	Contents []Content `json:"contents"`
}

type meta struct {
	AppMeta appMeta `json:"app_meta"`
}

type appMeta struct {
	From    string `json:"from"`
	MobiApp string `json:"mobi_app"`
}

type attachCardBlock struct {
	CommonCard AttachCard `json:"common_card"`
}

// Detail is a feed item as returned by the detail endpoint. Card and
// ExtendJSON arrive as JSON-encoded strings on the wire and are decoded
// before the caller sees them.
type Detail struct {
	Desc       json.RawMessage
	Card       map[string]any
	ExtendJSON map[string]any
}

// RepostList is one page of reposts. Offset is an opaque cursor for the
// next page, valid only within this chain.
type RepostList struct {
	Items   []json.RawMessage `json:"items"`
	Offset  string            `json:"offset"`
	HasMore int               `json:"has_more"`
	Total   int               `json:"total"`
}

// LikeList is one page of likes.
type LikeList struct {
	ItemLikes  []LikeUser `json:"item_likes"`
	HasMore    int        `json:"has_more"`
	TotalCount int        `json:"total_count"`
}

type LikeUser struct {
	UID   int64  `json:"uid"`
	Uname string `json:"uname"`
	Face  string `json:"face"`
}
