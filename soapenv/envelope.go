package soapenv

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"github.com/kevinyjn/gowsc/xmlutils"
)

const envelopePrefix = "soap-env"

// Envelope is one outbound soap message under construction. The body carries
// at most one content element, the header accepts any number of blocks.
type Envelope struct {
	version SoapVersion
	doc     *etree.Document
	header  *etree.Element
	body    *etree.Element
}

// NewEnvelope builds an empty envelope of the given protocol version
func NewEnvelope(version SoapVersion) *Envelope {
	doc := xmlutils.NewDocument()
	root := doc.CreateElement(envelopePrefix + ":Envelope")
	root.CreateAttr("xmlns:"+envelopePrefix, version.EnvelopeNamespace())
	header := root.CreateElement(envelopePrefix + ":Header")
	body := root.CreateElement(envelopePrefix + ":Body")
	return &Envelope{version: version, doc: doc, header: header, body: body}
}

// Version getter
func (e *Envelope) Version() SoapVersion {
	return e.version
}

// Document returns the backing document
func (e *Envelope) Document() *etree.Document {
	return e.doc
}

// HeaderElement returns the envelope header block element
func (e *Envelope) HeaderElement() *etree.Element {
	return e.header
}

// BodyElement returns the envelope body block element
func (e *Envelope) BodyElement() *etree.Element {
	return e.body
}

// BodyContent returns the body content element, nil while the body is empty
func (e *Envelope) BodyContent() *etree.Element {
	return xmlutils.FirstChildElement(e.body)
}

// SetBodyContent replaces the body children with the given element
func (e *Envelope) SetBodyContent(element *etree.Element) {
	for 0 < len(e.body.Child) {
		e.body.RemoveChild(e.body.Child[0])
	}
	if nil != element {
		e.body.AddChild(element)
	}
}

// AddHeaderXML parses a raw header fragment and appends it to the envelope
// header block, the name only qualifies parsing failures
func (e *Envelope) AddHeaderXML(name string, value string) error {
	doc, err := xmlutils.StringToDocument(value)
	if nil != err {
		return fmt.Errorf("the value of the [%s] soap header is not a valid XML: %v", name, err)
	}
	e.header.AddChild(doc.Root())
	return nil
}

// AddHeaderElement appends one header block element
func (e *Envelope) AddHeaderElement(element *etree.Element) {
	e.header.AddChild(element)
}

// SetDocument replaces the backing document, relocating the header and body
// references. Security strategies rewriting the serialized envelope restore
// their result through this.
func (e *Envelope) SetDocument(doc *etree.Document) error {
	root := doc.Root()
	if nil == root || "Envelope" != root.Tag {
		return errors.New("the document element is not a soap envelope")
	}
	body := root.SelectElement("Body")
	if nil == body {
		return errors.New("the soap envelope does not contain a body element")
	}
	header := root.SelectElement("Header")
	if nil == header {
		header = etree.NewElement(envelopePrefix + ":Header")
		root.InsertChildAt(0, header)
	}
	e.doc = doc
	e.body = body
	e.header = header
	return nil
}

// SerializeBytes writes the envelope with an XML declaration, transcoding
// the output into the named charset, utf-8 when empty
func (e *Envelope) SerializeBytes(encoding string) ([]byte, error) {
	content, err := e.doc.WriteToBytes()
	if nil != err {
		return nil, err
	}
	charset := encoding
	if "" == charset {
		charset = xmlutils.CharsetUTF8
	}
	if !xmlutils.IsUTF8Charset(charset) {
		content, err = xmlutils.EncodeFromUTF8(content, charset)
		if nil != err {
			return nil, err
		}
	}
	var buffer bytes.Buffer
	buffer.WriteString(fmt.Sprintf("<?xml version=\"1.0\" encoding=\"%s\"?>\n", charset))
	buffer.Write(content)
	return buffer.Bytes(), nil
}

// String serializes the envelope for diagnostics
func (e *Envelope) String() string {
	content, err := e.doc.WriteToString()
	if nil != err {
		return ""
	}
	return content
}
