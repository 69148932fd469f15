package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/bilikit/bilikit/client"
	"github.com/bilikit/bilikit/credential"
	"github.com/bilikit/bilikit/dynamic"
	"github.com/bilikit/bilikit/internal/database"
	"github.com/bilikit/bilikit/picture"
)

type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func cmdPost(c *client.Client, cred *credential.Credential, args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	text := fs.String("text", "", "post text; @name mentions are resolved")
	var images stringList
	fs.Var(&images, "image", "image file to attach (repeatable)")
	topicID := fs.Int64("topic", 0, "topic id to tag the post with")
	cardOID := fs.Int64("card", 0, "live-reservation card oid to attach")
	voteID := fs.Int64("vote", 0, "vote id to embed")
	chooseComments := fs.Bool("choose-comments", false, "only show comments the author picked")
	closeComments := fs.Bool("close-comments", false, "disable comments")
	fs.Parse(args)

	builder := dynamic.NewBuilder()
	if *text != "" {
		builder.AddText(*text)
	}
	if *voteID != 0 {
		builder.AddVoteID(c, *voteID)
	}
	for _, path := range images {
		pic, err := picture.FromFile(path)
		if err != nil {
			return err
		}
		if err := pic.Downscale(picture.MaxUploadDim); err != nil {
			return err
		}
		uploaded, err := dynamic.UploadImage(c, pic, cred)
		if err != nil {
			return err
		}
		builder.AddImage(uploaded)
	}
	if *topicID != 0 {
		builder.SetTopicID(*topicID)
	}
	if *cardOID != 0 {
		builder.SetAttachCard(*cardOID)
	}
	builder.SetOptions(*chooseComments, *closeComments)

	d, err := dynamic.Send(c, builder, cred)
	if err != nil {
		return err
	}

	if err := database.SaveDynamic(d.ID(), *text, int(builder.Scene()), "post"); err != nil {
		return err
	}
	fmt.Printf("published dynamic %d\n", d.ID())
	return nil
}

func cmdInfo(c *client.Client, cred *credential.Credential, args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	id := fs.Int64("id", 0, "dynamic id")
	fs.Parse(args)

	detail, err := dynamic.New(c, *id, cred).GetInfo()
	if err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(detail.Card, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))
	return nil
}

func cmdFeed(c *client.Client, cred *credential.Credential, args []string) error {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	feedType := fs.String("type", "", "feed type filter: all, pgc, article or video")
	hostMID := fs.Int64("mid", 0, "list a single creator's posts instead")
	page := fs.Int("page", 1, "page number")
	offset := fs.String("offset", "", "cursor from a previous page")
	fs.Parse(args)

	items, err := dynamic.GetPageInfo(c, cred, dynamic.PageOptions{
		Type:    dynamic.DynamicType(*feedType),
		HostMID: *hostMID,
		Page:    *page,
		Offset:  *offset,
	})
	if err != nil {
		return err
	}

	for _, item := range items {
		fmt.Println(item.ID())
	}
	return nil
}

func cmdLike(c *client.Client, cred *credential.Credential, args []string, status bool) error {
	fs := flag.NewFlagSet("like", flag.ExitOnError)
	id := fs.Int64("id", 0, "dynamic id")
	fs.Parse(args)

	return dynamic.New(c, *id, cred).SetLike(status)
}

func cmdRepost(c *client.Client, cred *credential.Credential, args []string) error {
	fs := flag.NewFlagSet("repost", flag.ExitOnError)
	id := fs.Int64("id", 0, "dynamic id")
	text := fs.String("text", "", "caption; empty uses the platform default")
	fs.Parse(args)

	if err := dynamic.New(c, *id, cred).Repost(*text); err != nil {
		return err
	}
	return database.SaveDynamic(*id, *text, int(dynamic.SceneText), "repost")
}

func cmdDelete(c *client.Client, cred *credential.Credential, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int64("id", 0, "dynamic id")
	fs.Parse(args)

	return dynamic.New(c, *id, cred).Delete()
}

func cmdSchedules(c *client.Client, cred *credential.Credential, args []string) error {
	fs := flag.NewFlagSet("schedules", flag.ExitOnError)
	publish := fs.Int64("publish", 0, "publish this draft immediately")
	remove := fs.Int64("delete", 0, "delete this draft")
	fs.Parse(args)

	switch {
	case *publish != 0:
		return dynamic.SendScheduleNow(c, *publish, cred)
	case *remove != 0:
		return dynamic.DeleteSchedule(c, *remove, cred)
	default:
		drafts, err := dynamic.GetSchedules(c, cred)
		if err != nil {
			return err
		}
		fmt.Println(string(drafts))
		return nil
	}
}

func cmdHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("n", 20, "number of entries")
	fs.Parse(args)

	entries, err := database.RecentDynamics(*limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s  %d  %-6s  %s\n", e.CreatedAt, e.ID, e.Kind, e.Content)
	}
	return nil
}
