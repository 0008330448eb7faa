package testingutil

import (
	"sort"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

// AssertSimilarXML asserts that two XML documents are structurally similar,
// ignoring attribute order and insignificant whitespace
func AssertSimilarXML(t *testing.T, expected string, actual string, valueName string) bool {
	expectedShape, err := canonicalXMLShape(expected)
	if nil != err {
		t.Fatalf("validate %s while parsing expected XML failed with error:%v", valueName, err)
		return false
	}
	actualShape, err := canonicalXMLShape(actual)
	if nil != err {
		t.Fatalf("validate %s while parsing actual XML failed with error:%v", valueName, err)
		return false
	}
	if expectedShape == actualShape {
		return true
	}
	t.Fatalf("validate values %s:%s not similar to expected:%s", valueName, actual, expected)
	return false
}

func canonicalXMLShape(content string) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(content); nil != err {
		return "", err
	}
	builder := &strings.Builder{}
	writeCanonicalElement(doc.Root(), builder)
	return builder.String(), nil
}

func writeCanonicalElement(element *etree.Element, builder *strings.Builder) {
	if nil == element {
		builder.WriteString("<nil>")
		return
	}
	tag := element.Tag
	if "" != element.Space {
		tag = element.Space + ":" + element.Tag
	}
	builder.WriteString("<" + tag)
	attrs := make([]string, 0, len(element.Attr))
	for _, attr := range element.Attr {
		name := attr.Key
		if "" != attr.Space {
			name = attr.Space + ":" + attr.Key
		}
		attrs = append(attrs, name+"="+attr.Value)
	}
	sort.Strings(attrs)
	for _, attr := range attrs {
		builder.WriteString(" " + attr)
	}
	builder.WriteString(">")
	if text := strings.TrimSpace(element.Text()); "" != text {
		builder.WriteString(text)
	}
	for _, child := range element.ChildElements() {
		writeCanonicalElement(child, builder)
	}
	builder.WriteString("</" + tag + ">")
}
