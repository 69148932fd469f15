package dynamic

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bilikit/bilikit/client"
	"github.com/bilikit/bilikit/user"
)

// Mention format is "@name " with a trailing space.
var atPattern = regexp.MustCompile(`@(\S+)\s`)

type atControl struct {
	Location int   `json:"location"`
	Type     int   `json:"type"`
	Length   int   `json:"length"`
	Data     int64 `json:"data"`
}

type resolvedAt struct {
	index   int
	matched string
	uid     int64
	name    string
	err     error
}

// parseAt resolves every "@name " mention in text. It returns the text with
// each matched name rewritten to the account's canonical display name, the
// resolved uids joined by commas in encounter order, and a JSON array of
// rich-text control records (rune offset, type 1, rune length of "@name",
// uid). Names that resolve to no account are left in place and contribute
// nothing; any other lookup failure aborts.
func parseAt(c *client.Client, text string) (newText, uidCSV, ctrlJSON string, err error) {
	// Sentinel so a trailing mention with no following space still matches.
	text += " "
	matches := atPattern.FindAllStringSubmatch(text, -1)

	// Lookups are independent; fan out and reassemble in encounter order.
	results := make(chan resolvedAt, len(matches))
	for i, match := range matches {
		go func(index int, matched string) {
			uid, err := user.NameToUID(c, matched)
			if err != nil {
				results <- resolvedAt{index: index, matched: matched, err: err}
				return
			}
			// The name in the text may be a stale alias; the control array
			// must carry the canonical one.
			info, err := user.New(c, uid, nil).GetInfo()
			if err != nil {
				results <- resolvedAt{index: index, matched: matched, err: err}
				return
			}
			results <- resolvedAt{index: index, matched: matched, uid: uid, name: info.Name}
		}(i, match[1])
	}

	ordered := make([]resolvedAt, len(matches))
	for range matches {
		r := <-results
		ordered[r.index] = r
	}

	newText = text
	uids := make([]string, 0, len(matches))
	names := make([]string, 0, len(matches))
	for _, r := range ordered {
		if r.err != nil {
			if errors.Is(r.err, user.ErrNameNotFound) {
				continue
			}
			return "", "", "", fmt.Errorf("resolve @%s: %w", r.matched, r.err)
		}
		uids = append(uids, strconv.FormatInt(r.uid, 10))
		names = append(names, r.name)
		newText = strings.Replace(newText, "@"+r.matched+" ", "@"+r.name+" ", 1)
	}

	ctrl := make([]atControl, 0, len(names))
	for i, name := range names {
		byteIndex := strings.Index(newText, "@"+name)
		if byteIndex < 0 {
			continue
		}
		uid, _ := strconv.ParseInt(uids[i], 10, 64)
		ctrl = append(ctrl, atControl{
			Location: utf8.RuneCountInString(newText[:byteIndex]),
			Type:     1,
			Length:   2 + utf8.RuneCountInString(name),
			Data:     uid,
		})
	}

	encoded, err := json.Marshal(ctrl)
	if err != nil {
		return "", "", "", fmt.Errorf("encode at controls: %w", err)
	}

	newText = strings.TrimSuffix(newText, " ")
	return newText, strings.Join(uids, ","), string(encoded), nil
}

// textData builds the form payload shared by text-content operations.
func textData(c *client.Client, text string) (map[string]string, error) {
	newText, uidCSV, ctrlJSON, err := parseAt(c, text)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"dynamic_id": "0",
		"type":       "4",
		"rid":        "0",
		"content":    newText,
		"extension":  `{"emoji_type":1}`,
		"at_uids":    uidCSV,
		"ctrl":       ctrlJSON,
	}, nil
}
