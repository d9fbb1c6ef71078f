package content

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// ParseError reports a malformed front-matter block. Doc names the offending
// document so an operator can find and fix it.
type ParseError struct {
	Doc string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("content: parse %s: %v", e.Doc, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var fmDelim = []byte("---")

// opensFrontMatter reports whether the document starts a front-matter block:
// the first line must be exactly the delimiter. A body that merely begins
// with dashes (a ---- horizontal rule, "--- draft notes") opens nothing.
func opensFrontMatter(src []byte) bool {
	if !bytes.HasPrefix(src, fmDelim) {
		return false
	}
	rest := src[len(fmDelim):]
	return len(rest) == 0 || rest[0] == '\n' || bytes.HasPrefix(rest, []byte("\r\n"))
}

// ParseFrontMatter splits a markdown document into its front-matter mapping
// and body. A document without a leading front-matter block yields an empty
// mapping and the full input as body. An opening delimiter without a closing
// one, or invalid YAML between them, yields a *ParseError naming doc.
//
// Values are flattened to strings; YAML-resolved timestamps come back in
// calendar-date form. The function does no I/O.
func ParseFrontMatter(doc string, src []byte) (map[string]string, []byte, error) {
	if opensFrontMatter(src) {
		rest := src[len(fmDelim):]
		if !bytes.Contains(rest, append([]byte("\n"), fmDelim...)) {
			return nil, nil, &ParseError{Doc: doc, Err: fmt.Errorf("front matter opened but never closed")}
		}
	}

	raw := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(src), &raw)
	if err != nil {
		return nil, nil, &ParseError{Doc: doc, Err: err}
	}

	meta := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			meta[k] = val
		case time.Time:
			meta[k] = val.Format("2006-01-02")
		case nil:
			meta[k] = ""
		default:
			meta[k] = fmt.Sprint(val)
		}
	}
	return meta, body, nil
}
