package generator

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/kevinyjn/gowsc/introspection"
	"github.com/kevinyjn/gowsc/message"
	"github.com/kevinyjn/gowsc/soapenv"
	"github.com/kevinyjn/gowsc/soaperrors"
	"github.com/kevinyjn/gowsc/xop"
)

// MtomRequestEnricher carries request attachments as separate binary parts
// referenced from the body through xop include placeholders
type MtomRequestEnricher struct {
	enricherBase
}

// NewMtomRequestEnricher builds an mtom request enricher over a service
// definition
func NewMtomRequestEnricher(definition *introspection.Definition) *MtomRequestEnricher {
	return &MtomRequestEnricher{enricherBase{definition: definition}}
}

// Enrich replaces each declared attachment element content with an xop
// include reference and registers the payload as a transport part.
// Attachments beyond the declared ones are rejected, an mtom package only
// carries parts the body references.
func (e *MtomRequestEnricher) Enrich(envelope *soapenv.Envelope, operation string, attachments map[string]message.Attachment) ([]xop.Part, error) {
	op, err := e.operation(operation)
	if nil != err {
		return nil, err
	}
	declared := op.InputAttachments()
	if err = checkDeclaredAttachments(operation, declared, attachments); nil != err {
		return nil, err
	}
	if undeclared := undeclaredNames(declared, attachments); 0 < len(undeclared) {
		return nil, soaperrors.NewBadRequestError("the [%s] attachments are not declared by the [%s] operation and cannot travel as mtom parts",
			strings.Join(undeclared, ", "), operation)
	}
	if 0 == len(declared) {
		return nil, nil
	}
	content := envelope.BodyContent()
	if nil == content {
		return nil, soaperrors.NewBadRequestError("the [%s] operation request does not contain a body element to enrich", operation)
	}
	parts := make([]xop.Part, 0, len(declared))
	for _, part := range declared {
		attachment := attachments[part.Name]
		contentID := fmt.Sprintf("%s-%s@gowsc", part.Name, uuid.NewString())
		element := attachmentElement(content, part.WireName())
		clearElement(element)
		element.AddChild(xop.NewIncludeElement(contentID))
		parts = append(parts, xop.Part{
			ContentID:   contentID,
			ContentType: attachmentContentType(part, attachment.ContentType),
			Content:     attachment.Content,
		})
	}
	return parts, nil
}

// SoapAttachmentRequestEnricher embeds request attachments directly into the
// body as base64 element content, no separate transport parts are produced
type SoapAttachmentRequestEnricher struct {
	enricherBase
}

// NewSoapAttachmentRequestEnricher builds an inline attachment request
// enricher over a service definition
func NewSoapAttachmentRequestEnricher(definition *introspection.Definition) *SoapAttachmentRequestEnricher {
	return &SoapAttachmentRequestEnricher{enricherBase{definition: definition}}
}

// Enrich embeds every provided attachment as base64 content of its carrier
// element. Attachments without a declared part are embedded as well, the
// inline strategy never drops a provided payload.
func (e *SoapAttachmentRequestEnricher) Enrich(envelope *soapenv.Envelope, operation string, attachments map[string]message.Attachment) ([]xop.Part, error) {
	op, err := e.operation(operation)
	if nil != err {
		return nil, err
	}
	declared := op.InputAttachments()
	if err = checkDeclaredAttachments(operation, declared, attachments); nil != err {
		return nil, err
	}
	if 0 == len(attachments) {
		return nil, nil
	}
	content := envelope.BodyContent()
	if nil == content {
		return nil, soaperrors.NewBadRequestError("the [%s] operation request does not contain a body element to enrich", operation)
	}
	for _, part := range declared {
		embedAttachment(content, part.WireName(), attachments[part.Name])
	}
	for _, name := range undeclaredNames(declared, attachments) {
		embedAttachment(content, name, attachments[name])
	}
	return nil, nil
}

func embedAttachment(content *etree.Element, wireName string, attachment message.Attachment) {
	element := attachmentElement(content, wireName)
	clearElement(element)
	element.SetText(base64.StdEncoding.EncodeToString(attachment.Content))
}
