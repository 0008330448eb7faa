package soapenv

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"github.com/kevinyjn/gowsc/logger"
	"github.com/kevinyjn/gowsc/xmlutils"
)

// ParsedEnvelope is one inbound soap message. The accessors never mutate the
// parsed document except for the fault detail serialization buffer.
type ParsedEnvelope struct {
	version SoapVersion
	doc     *etree.Document
	root    *etree.Element
	header  *etree.Element
	body    *etree.Element
}

// ParseEnvelope parses a wire level soap message, detecting the protocol
// version from the envelope namespace
func ParseEnvelope(data []byte) (*ParsedEnvelope, error) {
	doc, err := xmlutils.BytesToDocument(data)
	if nil != err {
		return nil, err
	}
	root := doc.Root()
	if "Envelope" != root.Tag {
		return nil, fmt.Errorf("the document element [%s] is not a soap envelope", xmlutils.FullTag(root))
	}
	version, err := detectVersion(root)
	if nil != err {
		return nil, err
	}
	body := root.SelectElement("Body")
	if nil == body {
		return nil, errors.New("the soap envelope does not contain a body element")
	}
	return &ParsedEnvelope{
		version: version,
		doc:     doc,
		root:    root,
		header:  root.SelectElement("Header"),
		body:    body,
	}, nil
}

func detectVersion(root *etree.Element) (SoapVersion, error) {
	for _, attr := range root.Attr {
		if "xmlns" != attr.Space && !("" == attr.Space && "xmlns" == attr.Key) {
			continue
		}
		switch attr.Value {
		case Soap11Namespace:
			return SOAP11, nil
		case Soap12Namespace:
			return SOAP12, nil
		}
	}
	return SOAP11, errors.New("the envelope does not declare a known soap namespace")
}

// Version getter
func (e *ParsedEnvelope) Version() SoapVersion {
	return e.version
}

// Document returns the backing document
func (e *ParsedEnvelope) Document() *etree.Document {
	return e.doc
}

// BodyElement returns the envelope body block element
func (e *ParsedEnvelope) BodyElement() *etree.Element {
	return e.body
}

// BodyContent returns the body content element, nil when the body is empty
func (e *ParsedEnvelope) BodyContent() *etree.Element {
	return xmlutils.FirstChildElement(e.body)
}

// SoapHeaders serializes the header blocks keyed by their local names
func (e *ParsedEnvelope) SoapHeaders() map[string]string {
	headers := map[string]string{}
	if nil == e.header {
		return headers
	}
	for _, child := range e.header.ChildElements() {
		value, err := xmlutils.NodeToString(child)
		if nil != err {
			logger.Debug.Printf("serializing the [%s] soap header failed with error:%v", child.Tag, err)
			continue
		}
		headers[child.Tag] = value
	}
	return headers
}
