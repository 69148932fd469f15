// Package testenv runs an in-process stand-in for the platform API. A
// client is pointed at it through a dial override, so the code under test
// goes through the real dispatcher and endpoint table.
package testenv

import (
	"fmt"
	"net"
	"testing"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/bilikit/bilikit/api"
	"github.com/bilikit/bilikit/client"
)

// Mirrors the embedded endpoint table with local URLs; paths follow the
// module/group/name keys so tests can register routes by key.
const tableYAML = `
dynamic:
  info:
    detail: {url: "http://bili.test/dynamic/info/detail", method: GET}
    repost: {url: "http://bili.test/dynamic/info/repost", method: GET}
    likes: {url: "http://bili.test/dynamic/info/likes", method: GET}
    attention_new_dynamic: {url: "http://bili.test/dynamic/info/attention_new_dynamic", method: GET}
    attention_live: {url: "http://bili.test/dynamic/info/attention_live", method: GET}
    dynamic_page_ups_info: {url: "http://bili.test/dynamic/info/dynamic_page_ups_info", method: GET}
    dynamic_page_info: {url: "http://bili.test/dynamic/info/dynamic_page_info", method: GET}
  operate:
    like: {url: "http://bili.test/dynamic/operate/like", method: POST}
    delete: {url: "http://bili.test/dynamic/operate/delete", method: POST}
    repost: {url: "http://bili.test/dynamic/operate/repost", method: POST}
  send:
    instant: {url: "http://bili.test/dynamic/send/instant", method: POST}
    upload_img: {url: "http://bili.test/dynamic/send/upload_img", method: POST}
  schedule:
    list: {url: "http://bili.test/dynamic/schedule/list", method: GET}
    publish_now: {url: "http://bili.test/dynamic/schedule/publish_now", method: POST}
    delete: {url: "http://bili.test/dynamic/schedule/delete", method: POST}
user:
  info:
    name_to_uid: {url: "http://bili.test/user/info/name_to_uid", method: GET}
    my_info: {url: "http://bili.test/user/info/my_info", method: GET}
    info: {url: "http://bili.test/user/info/info", method: GET}
vote:
  info:
    info: {url: "http://bili.test/vote/info/info", method: GET}
topic:
  info:
    info: {url: "http://bili.test/topic/info/info", method: GET}
`

// Server routes fake endpoint handlers.
type Server struct {
	Router *router.Router
}

// New starts a fake API server and returns it with a client wired to it.
// Both are torn down with the test.
func New(t *testing.T) (*Server, *client.Client) {
	t.Helper()

	r := router.New()
	listener := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: r.Handler}

	go func() {
		if err := server.Serve(listener); err != nil {
			// Serve returns once the listener closes at cleanup.
			_ = err
		}
	}()
	t.Cleanup(func() {
		_ = listener.Close()
	})

	table, err := api.Parse([]byte(tableYAML))
	if err != nil {
		t.Fatalf("parse test endpoint table: %v", err)
	}

	c := client.New(table)
	c.HTTP.Dial = func(addr string) (net.Conn, error) {
		return listener.Dial()
	}
	return &Server{Router: r}, c
}

// Respond writes a success envelope with the given data JSON.
func Respond(ctx *fasthttp.RequestCtx, data string) {
	ctx.SetContentType("application/json")
	fmt.Fprintf(ctx, `{"code":0,"message":"0","ttl":1,"data":%s}`, data)
}

// RespondError writes an envelope with a non-zero API code.
func RespondError(ctx *fasthttp.RequestCtx, code int, message string) {
	ctx.SetContentType("application/json")
	fmt.Fprintf(ctx, `{"code":%d,"message":%q,"ttl":1,"data":null}`, code, message)
}

// OK is a handler responding with the given data JSON.
func OK(data string) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		Respond(ctx, data)
	}
}
