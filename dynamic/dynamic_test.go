package dynamic_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/bilikit/bilikit/credential"
	"github.com/bilikit/bilikit/dynamic"
	"github.com/bilikit/bilikit/internal/testenv"
	"github.com/bilikit/bilikit/picture"
)

func fixturePicture() *picture.Picture {
	return &picture.Picture{Width: 640, Height: 480, Content: []byte("raw-image-bytes")}
}

func TestGetInfoDecodesEmbeddedJSON(t *testing.T) {
	s, c := testenv.New(t)
	s.Router.GET("/dynamic/info/detail", testenv.OK(`{
		"card": {
			"desc": {"dynamic_id": 1234, "uid": 42},
			"card": "{\"item\":{\"content\":\"hello\"}}",
			"extend_json": "{\"from\":{\"emoji_type\":1}}"
		}
	}`))

	detail, err := dynamic.New(c, 1234, nil).GetInfo()
	if err != nil {
		t.Fatal(err)
	}

	item, ok := detail.Card["item"].(map[string]any)
	if !ok {
		t.Fatalf("card.item - want decoded object, got: %v", detail.Card)
	}
	if item["content"] != "hello" {
		t.Fatalf("card.item.content - want: hello, got: %v", item["content"])
	}

	from, ok := detail.ExtendJSON["from"].(map[string]any)
	if !ok {
		t.Fatalf("extend_json.from - want decoded object, got: %v", detail.ExtendJSON)
	}
	if from["emoji_type"] != float64(1) {
		t.Fatalf("extend_json emoji_type - want: 1, got: %v", from["emoji_type"])
	}
}

func TestGetRepostsOffsetSentinel(t *testing.T) {
	s, c := testenv.New(t)
	var gotOffset []byte
	var hasOffset bool
	s.Router.GET("/dynamic/info/repost", func(ctx *fasthttp.RequestCtx) {
		hasOffset = ctx.QueryArgs().Has("offset")
		gotOffset = append([]byte(nil), ctx.QueryArgs().Peek("offset")...)
		testenv.Respond(ctx, `{"items":[],"offset":"456","has_more":0,"total":0}`)
	})

	d := dynamic.New(c, 1, nil)

	if _, err := d.GetReposts("0"); err != nil {
		t.Fatal(err)
	}
	if hasOffset {
		t.Fatalf("offset - want omitted for first page, got: %q", gotOffset)
	}

	list, err := d.GetReposts("123")
	if err != nil {
		t.Fatal(err)
	}
	if string(gotOffset) != "123" {
		t.Fatalf("offset - want: 123, got: %q", gotOffset)
	}
	if list.Offset != "456" {
		t.Fatalf("next offset - want: 456, got: %q", list.Offset)
	}
}

func TestGetLikes(t *testing.T) {
	s, c := testenv.New(t)
	var pn, ps string
	s.Router.GET("/dynamic/info/likes", func(ctx *fasthttp.RequestCtx) {
		pn = string(ctx.QueryArgs().Peek("pn"))
		ps = string(ctx.QueryArgs().Peek("ps"))
		testenv.Respond(ctx, `{"item_likes":[{"uid":42,"uname":"alice"}],"has_more":0,"total_count":1}`)
	})

	list, err := dynamic.New(c, 1, nil).GetLikes(2, 30)
	if err != nil {
		t.Fatal(err)
	}
	if pn != "2" || ps != "30" {
		t.Fatalf("paging - want pn=2 ps=30, got pn=%s ps=%s", pn, ps)
	}
	if len(list.ItemLikes) != 1 || list.ItemLikes[0].Uname != "alice" {
		t.Fatalf("likes - got: %+v", list.ItemLikes)
	}
}

func TestSetLikeEncoding(t *testing.T) {
	s, c := testenv.New(t)
	s.Router.GET("/user/info/my_info", testenv.OK(`{"mid":777,"name":"me"}`))

	var form url.Values
	s.Router.POST("/dynamic/operate/like", func(ctx *fasthttp.RequestCtx) {
		form, _ = url.ParseQuery(string(ctx.PostBody()))
		testenv.Respond(ctx, `{}`)
	})

	d := dynamic.New(c, 55, sessionCred)

	if err := d.SetLike(true); err != nil {
		t.Fatal(err)
	}
	if form.Get("up") != "1" {
		t.Fatalf("up - want: 1, got: %q", form.Get("up"))
	}
	if form.Get("uid") != "777" {
		t.Fatalf("uid - want: 777, got: %q", form.Get("uid"))
	}
	if form.Get("dynamic_id") != "55" {
		t.Fatalf("dynamic_id - want: 55, got: %q", form.Get("dynamic_id"))
	}
	if form.Get("csrf") != "csrf-token" {
		t.Fatalf("csrf - want: csrf-token, got: %q", form.Get("csrf"))
	}

	if err := d.SetLike(false); err != nil {
		t.Fatal(err)
	}
	if form.Get("up") != "2" {
		t.Fatalf("up - want: 2, got: %q", form.Get("up"))
	}
}

func TestDeleteRequiresSessdata(t *testing.T) {
	_, c := testenv.New(t)

	err := dynamic.New(c, 1, &credential.Credential{}).Delete()
	if !errors.Is(err, credential.ErrNoSessdata) {
		t.Fatalf("want ErrNoSessdata, got: %v", err)
	}
}

func TestRepostDefaultCaption(t *testing.T) {
	s, c := testenv.New(t)
	s.Router.GET("/user/info/name_to_uid", testenv.OK(`{"uid_list":[]}`))

	var form url.Values
	s.Router.POST("/dynamic/operate/repost", func(ctx *fasthttp.RequestCtx) {
		form, _ = url.ParseQuery(string(ctx.PostBody()))
		testenv.Respond(ctx, `{}`)
	})

	if err := dynamic.New(c, 88, sessionCred).Repost(""); err != nil {
		t.Fatal(err)
	}
	if form.Get("content") != "转发动态" {
		t.Fatalf("content - want default caption, got: %q", form.Get("content"))
	}
	if form.Get("dynamic_id") != "88" {
		t.Fatalf("dynamic_id - want: 88, got: %q", form.Get("dynamic_id"))
	}
	if form.Get("type") != "4" || form.Get("rid") != "0" {
		t.Fatalf("fixed fields - got type=%q rid=%q", form.Get("type"), form.Get("rid"))
	}
	if form.Get("ctrl") != "[]" {
		t.Fatalf("ctrl - want: [], got: %q", form.Get("ctrl"))
	}
}

func TestGetPageInfoFilterPrecedence(t *testing.T) {
	s, c := testenv.New(t)
	var query url.Values
	s.Router.GET("/dynamic/info/dynamic_page_info", func(ctx *fasthttp.RequestCtx) {
		query, _ = url.ParseQuery(ctx.QueryArgs().String())
		testenv.Respond(ctx, `{"items":[{"id_str":"111"},{"id_str":"222"}],"has_more":1}`)
	})

	// Type filter wins when both are set.
	items, err := dynamic.GetPageInfo(c, nil, dynamic.PageOptions{
		Type:    dynamic.TypeVideo,
		HostMID: 42,
	})
	if err != nil {
		t.Fatal(err)
	}
	if query.Get("type") != "video" {
		t.Fatalf("type - want: video, got: %q", query.Get("type"))
	}
	if query.Has("host_mid") {
		t.Fatalf("host_mid - want omitted when type set, got: %q", query.Get("host_mid"))
	}
	if query.Get("timezone_offset") != "-480" || query.Get("features") != "itemOpusStyle" {
		t.Fatalf("fixed params - got: %v", query)
	}
	if len(items) != 2 || items[0].ID() != 111 || items[1].ID() != 222 {
		t.Fatalf("items - got: %v", items)
	}

	// User filter applies only without a type filter.
	if _, err := dynamic.GetPageInfo(c, nil, dynamic.PageOptions{HostMID: 42}); err != nil {
		t.Fatal(err)
	}
	if query.Get("host_mid") != "42" {
		t.Fatalf("host_mid - want: 42, got: %q", query.Get("host_mid"))
	}
	if query.Has("type") {
		t.Fatalf("type - want omitted, got: %q", query.Get("type"))
	}
}

func TestSchedules(t *testing.T) {
	s, c := testenv.New(t)
	s.Router.GET("/dynamic/schedule/list", testenv.OK(`{"drafts":[{"draft_id":5}]}`))

	var form url.Values
	s.Router.POST("/dynamic/schedule/publish_now", func(ctx *fasthttp.RequestCtx) {
		form, _ = url.ParseQuery(string(ctx.PostBody()))
		testenv.Respond(ctx, `{}`)
	})

	if _, err := dynamic.GetSchedules(c, &credential.Credential{}); !errors.Is(err, credential.ErrNoSessdata) {
		t.Fatalf("want ErrNoSessdata, got: %v", err)
	}

	drafts, err := dynamic.GetSchedules(c, sessionCred)
	if err != nil {
		t.Fatal(err)
	}
	if string(drafts) == "" {
		t.Fatal("drafts - want raw payload, got empty")
	}

	if err := dynamic.SendScheduleNow(c, 5, sessionCred); err != nil {
		t.Fatal(err)
	}
	if form.Get("draft_id") != "5" {
		t.Fatalf("draft_id - want: 5, got: %q", form.Get("draft_id"))
	}
}

func TestUploadImage(t *testing.T) {
	s, c := testenv.New(t)
	var biz, category, fileContent string
	s.Router.POST("/dynamic/send/upload_img", func(ctx *fasthttp.RequestCtx) {
		form, err := ctx.MultipartForm()
		if err != nil {
			testenv.RespondError(ctx, -400, "not multipart")
			return
		}
		if v := form.Value["biz"]; len(v) > 0 {
			biz = v[0]
		}
		if v := form.Value["category"]; len(v) > 0 {
			category = v[0]
		}
		if file, err := ctx.FormFile("file_up"); err == nil {
			f, _ := file.Open()
			buf := make([]byte, file.Size)
			f.Read(buf)
			f.Close()
			fileContent = string(buf)
		}
		testenv.Respond(ctx, `{"image_url":"https://i0.example/abc.jpg","image_width":640,"image_height":480}`)
	})

	uploaded, err := dynamic.UploadImage(c, fixturePicture(), sessionCred)
	if err != nil {
		t.Fatal(err)
	}
	if biz != "new_dyn" || category != "daily" {
		t.Fatalf("fields - want biz=new_dyn category=daily, got biz=%q category=%q", biz, category)
	}
	if fileContent != "raw-image-bytes" {
		t.Fatalf("file_up - got: %q", fileContent)
	}
	if uploaded.URL != "https://i0.example/abc.jpg" || uploaded.Width != 640 || uploaded.Height != 480 {
		t.Fatalf("uploaded - got: %+v", uploaded)
	}

	_, err = dynamic.UploadImage(c, fixturePicture(), &credential.Credential{Sessdata: "s"})
	if !errors.Is(err, credential.ErrNoBiliJct) {
		t.Fatalf("want ErrNoBiliJct, got: %v", err)
	}
}
