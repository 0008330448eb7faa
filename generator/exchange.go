package generator

import (
	"github.com/kevinyjn/gowsc/xop"
)

// Exchange carries the wire level artifacts of one dispatch round trip that
// the response side needs besides the envelope itself
type Exchange struct {
	ContentType      string
	TransportHeaders map[string]string
	Parts            []xop.Part
}

func (e *Exchange) findPart(contentID string) (xop.Part, bool) {
	for _, part := range e.Parts {
		if part.ContentID == contentID {
			return part, true
		}
	}
	return xop.Part{}, false
}
