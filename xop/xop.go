package xop

import (
	"strings"

	"github.com/beevik/etree"
)

// Namespace of the xop include element
const Namespace = "http://www.w3.org/2004/08/xop/include"

const includeTag = "Include"

// Part is one binary part of a multipart related package
type Part struct {
	ContentID   string
	ContentType string
	Content     []byte
}

// Href formats the cid reference of a content id
func Href(contentID string) string {
	return "cid:" + contentID
}

// ParseHref extracts the content id of a cid reference
func ParseHref(href string) (string, bool) {
	if !strings.HasPrefix(href, "cid:") {
		return "", false
	}
	return strings.TrimPrefix(href, "cid:"), true
}

// NewIncludeElement builds an xop include reference element
func NewIncludeElement(contentID string) *etree.Element {
	include := etree.NewElement("xop:" + includeTag)
	include.CreateAttr("xmlns:xop", Namespace)
	include.CreateAttr("href", Href(contentID))
	return include
}

// IncludedContentID extracts the referenced content id when the element
// content is an xop include reference
func IncludedContentID(element *etree.Element) (string, bool) {
	if nil == element {
		return "", false
	}
	for _, child := range element.ChildElements() {
		if includeTag == child.Tag {
			return ParseHref(child.SelectAttrValue("href", ""))
		}
	}
	return "", false
}
