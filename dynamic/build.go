package dynamic

import (
	"fmt"
	"strconv"

	"github.com/bilikit/bilikit/client"
	"github.com/bilikit/bilikit/picture"
	"github.com/bilikit/bilikit/topic"
	"github.com/bilikit/bilikit/user"
	"github.com/bilikit/bilikit/vote"
)

// The platform's own web client prepends this text to every vote post.
const voteLeadIn = "我发起了一个投票"

// Builder accumulates the fragments of a composite post. It is single-use
// and append-only; nothing leaves the process until Send. The only method
// that touches the network is AddVote with an unfetched title, whose
// failure is held and surfaced by Send.
type Builder struct {
	contents   []Content
	pics       []Pic
	attachCard *AttachCard
	topic      *TopicRef
	options    map[string]int
	err        error
}

func NewBuilder() *Builder {
	return &Builder{
		contents: []Content{},
		options:  map[string]int{},
	}
}

// AddText appends a plain text fragment.
func (b *Builder) AddText(text string) *Builder {
	b.contents = append(b.contents, Content{BizID: "", Type: ContentText, RawText: text})
	return b
}

// AddAt appends a mention of the given uid.
func (b *Builder) AddAt(uid int64) *Builder {
	b.contents = append(b.contents, Content{
		BizID:   uid,
		Type:    ContentAt,
		RawText: fmt.Sprintf("@%d", uid),
	})
	return b
}

// AddAtUser appends a mention of a resolved user handle.
func (b *Builder) AddAtUser(u *user.User) *Builder {
	return b.AddAt(u.UID)
}

// AddEmoji appends an emoji fragment keyed by its name.
func (b *Builder) AddEmoji(name string) *Builder {
	b.contents = append(b.contents, Content{BizID: "", Type: ContentEmoji, RawText: name})
	return b
}

// AddVote appends a vote fragment, preceded by the platform's fixed lead-in
// text. Fetching the title may fail; the error is recorded and reported by
// Send.
func (b *Builder) AddVote(v *vote.Vote) *Builder {
	title, err := v.Title()
	if err != nil {
		if b.err == nil {
			b.err = fmt.Errorf("add vote %d: %w", v.ID, err)
		}
		return b
	}
	b.AddText(voteLeadIn)
	b.contents = append(b.contents, Content{
		BizID:   strconv.FormatInt(v.ID, 10),
		Type:    ContentVote,
		RawText: title,
	})
	return b
}

// AddVoteID is AddVote for a bare vote id.
func (b *Builder) AddVoteID(c *client.Client, id int64) *Builder {
	return b.AddVote(vote.New(c, id))
}

// AddImage appends an uploaded image descriptor.
func (b *Builder) AddImage(p *picture.Picture) *Builder {
	b.pics = append(b.pics, Pic{ImgSrc: p.URL, ImgWidth: p.Width, ImgHeight: p.Height})
	return b
}

// SetAttachCard attaches a live-reservation card by its oid, replacing any
// previous one.
func (b *Builder) SetAttachCard(oid int64) *Builder {
	b.attachCard = &AttachCard{
		Type:           14,
		BizID:          oid,
		ReserveSource:  1,
		ReserveLottery: 0,
	}
	return b
}

// SetTopicID points the post at a topic, replacing any previous one.
func (b *Builder) SetTopicID(id int64) *Builder {
	b.topic = &TopicRef{ID: id}
	return b
}

// SetTopic is SetTopicID for a topic handle.
func (b *Builder) SetTopic(t *topic.Topic) *Builder {
	return b.SetTopicID(t.ID)
}

// SetOptions merges the comment flags. False flags stay absent rather than
// being written as 0.
func (b *Builder) SetOptions(upChooseComment, closeComment bool) *Builder {
	if upChooseComment {
		b.options["up_choose_comment"] = 1
	}
	if closeComment {
		b.options["close_comment"] = 1
	}
	return b
}

// Scene reports how the post will be transmitted: IMAGE as soon as one
// image is attached, TEXT otherwise.
func (b *Builder) Scene() Scene {
	if len(b.pics) != 0 {
		return SceneImage
	}
	return SceneText
}

// Err reports the first accumulation failure, if any.
func (b *Builder) Err() error {
	return b.err
}
