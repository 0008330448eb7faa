package xmlutils

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"io/ioutil"
	"mime"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// CharsetUTF8 canonical utf-8 charset name
const CharsetUTF8 = "UTF-8"

var declarationEncodingPattern = regexp.MustCompile(`encoding\s*=\s*["'][^"']*["']`)

// CheckWellFormed validates that data is one well formed XML document with
// exactly one document element
func CheckWellFormed(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = CharsetReader
	roots := 0
	depth := 0
	for {
		token, err := decoder.Token()
		if io.EOF == err {
			break
		}
		if nil != err {
			return err
		}
		switch token.(type) {
		case xml.StartElement:
			if 0 == depth {
				roots++
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if 1 != roots {
		return fmt.Errorf("expected one document element while got %d", roots)
	}
	return nil
}

// CharsetReader builds a reader decoding input of the named charset
func CharsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if nil != err || nil == enc {
		return nil, fmt.Errorf("unsupported document charset:%s", charset)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

// NewDocument builds an empty document with charset aware read settings
func NewDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = CharsetReader
	return doc
}

// StringToDocument parses one XML document
func StringToDocument(content string) (*etree.Document, error) {
	return BytesToDocument([]byte(content))
}

// BytesToDocument parses one XML document
func BytesToDocument(data []byte) (*etree.Document, error) {
	doc := NewDocument()
	err := doc.ReadFromBytes(data)
	if nil != err {
		return nil, err
	}
	if nil == doc.Root() {
		return nil, fmt.Errorf("the document does not contain any element")
	}
	return doc, nil
}

// NodeToString serializes one element subtree, an empty string for nil
func NodeToString(element *etree.Element) (string, error) {
	if nil == element {
		return "", nil
	}
	doc := etree.NewDocument()
	doc.SetRoot(element.Copy())
	return doc.WriteToString()
}

// FirstChildElement returns the first child element, nil when the element
// contains none
func FirstChildElement(element *etree.Element) *etree.Element {
	if nil == element {
		return nil
	}
	children := element.ChildElements()
	if 0 == len(children) {
		return nil
	}
	return children[0]
}

// FullTag formats the element tag with its namespace prefix
func FullTag(element *etree.Element) string {
	if "" == element.Space {
		return element.Tag
	}
	return element.Space + ":" + element.Tag
}

// CharsetOf extracts the charset parameter of a content type value
func CharsetOf(contentType string) string {
	if "" == contentType {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if nil != err {
		return ""
	}
	return params["charset"]
}

// IsUTF8Charset reports whether the charset name denotes utf-8, the empty
// name counts as utf-8
func IsUTF8Charset(charset string) bool {
	return "" == charset || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8")
}

// TranscodeToUTF8 converts document bytes of the named charset into utf-8,
// rewriting the XML declaration encoding when one names another charset
func TranscodeToUTF8(data []byte, charset string) ([]byte, error) {
	if IsUTF8Charset(charset) {
		return data, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if nil != err || nil == enc {
		return nil, fmt.Errorf("unsupported document charset:%s", charset)
	}
	reader := transform.NewReader(bytes.NewReader(data), enc.NewDecoder())
	decoded, err := ioutil.ReadAll(reader)
	if nil != err {
		return nil, err
	}
	return rewriteDeclarationEncoding(decoded, CharsetUTF8), nil
}

// EncodeFromUTF8 converts utf-8 document bytes into the named charset
func EncodeFromUTF8(data []byte, charset string) ([]byte, error) {
	if IsUTF8Charset(charset) {
		return data, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if nil != err || nil == enc {
		return nil, fmt.Errorf("unsupported document charset:%s", charset)
	}
	reader := transform.NewReader(bytes.NewReader(data), enc.NewEncoder())
	return ioutil.ReadAll(reader)
}

func rewriteDeclarationEncoding(data []byte, charset string) []byte {
	if !bytes.HasPrefix(data, []byte("<?xml")) {
		return data
	}
	end := bytes.Index(data, []byte("?>"))
	if end < 0 {
		return data
	}
	declaration := declarationEncodingPattern.ReplaceAll(data[:end], []byte(`encoding="`+charset+`"`))
	return append(declaration, data[end:]...)
}
