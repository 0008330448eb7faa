package generator

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/kevinyjn/gowsc/introspection"
	"github.com/kevinyjn/gowsc/message"
	"github.com/kevinyjn/gowsc/xop"
)

// MtomResponseEnricher rebuilds response attachments from the binary parts
// delivered alongside the envelope, stripping the reference placeholders
// from the body
type MtomResponseEnricher struct {
	enricherBase
}

// NewMtomResponseEnricher builds an mtom response enricher over a service
// definition
func NewMtomResponseEnricher(definition *introspection.Definition) *MtomResponseEnricher {
	return &MtomResponseEnricher{enricherBase{definition: definition}}
}

// Enrich resolves each declared attachment reference against the delivered
// parts. A declared part absent from the actual response is omitted without
// failing, parts delivered beyond the declared ones are surfaced keyed by
// their content ids.
func (e *MtomResponseEnricher) Enrich(body *etree.Element, operation string, exchange *Exchange) (map[string]message.Attachment, error) {
	op, err := e.operation(operation)
	if nil != err {
		return nil, err
	}
	attachments := map[string]message.Attachment{}
	consumed := map[string]bool{}
	if nil != body {
		for _, part := range op.OutputAttachments() {
			element := findDescendant(body, part.WireName())
			if nil == element {
				continue
			}
			contentID, ok := xop.IncludedContentID(element)
			if !ok {
				continue
			}
			mimePart, ok := exchange.findPart(contentID)
			if !ok {
				return nil, fmt.Errorf("the [%s] operation response references the [%s] part that was not delivered with the message", operation, contentID)
			}
			attachments[part.Name] = message.Attachment{
				Content:     mimePart.Content,
				ContentType: attachmentContentType(part, mimePart.ContentType),
			}
			consumed[contentID] = true
			removeElement(element)
		}
	}
	for _, mimePart := range exchange.Parts {
		if consumed[mimePart.ContentID] {
			continue
		}
		attachments[mimePart.ContentID] = message.Attachment{Content: mimePart.Content, ContentType: mimePart.ContentType}
	}
	return attachments, nil
}

// SoapAttachmentResponseEnricher decodes response attachments embedded into
// the body as base64 element content, stripping the carrier elements
type SoapAttachmentResponseEnricher struct {
	enricherBase
}

// NewSoapAttachmentResponseEnricher builds an inline attachment response
// enricher over a service definition
func NewSoapAttachmentResponseEnricher(definition *introspection.Definition) *SoapAttachmentResponseEnricher {
	return &SoapAttachmentResponseEnricher{enricherBase{definition: definition}}
}

// Enrich decodes each declared attachment element. A declared part absent
// from the actual response is omitted without failing, content that does not
// decode as base64 fails the resolution.
func (e *SoapAttachmentResponseEnricher) Enrich(body *etree.Element, operation string, exchange *Exchange) (map[string]message.Attachment, error) {
	op, err := e.operation(operation)
	if nil != err {
		return nil, err
	}
	attachments := map[string]message.Attachment{}
	if nil == body {
		return attachments, nil
	}
	for _, part := range op.OutputAttachments() {
		element := findDescendant(body, part.WireName())
		if nil == element {
			continue
		}
		content, err := base64.StdEncoding.DecodeString(strings.TrimSpace(element.Text()))
		if nil != err {
			return nil, fmt.Errorf("decoding the [%s] attachment of the [%s] operation response failed with error:%v", part.Name, operation, err)
		}
		attachments[part.Name] = message.Attachment{
			Content:     content,
			ContentType: attachmentContentType(part, ""),
		}
		removeElement(element)
	}
	return attachments, nil
}
