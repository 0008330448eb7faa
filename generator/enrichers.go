package generator

import (
	"sort"

	"github.com/beevik/etree"
	"github.com/kevinyjn/gowsc/introspection"
	"github.com/kevinyjn/gowsc/message"
	"github.com/kevinyjn/gowsc/soapenv"
	"github.com/kevinyjn/gowsc/soaperrors"
	"github.com/kevinyjn/gowsc/xop"
)

const binaryContentType = "application/octet-stream"

// RequestEnricher rewrites an outbound envelope so the request attachments
// travel following one transport strategy. An envelope is enriched at most
// once. The returned parts are the binary parts the transport must carry
// alongside the envelope, empty when the attachments ride inside the body.
type RequestEnricher interface {
	Enrich(envelope *soapenv.Envelope, operation string, attachments map[string]message.Attachment) ([]xop.Part, error)
}

// ResponseEnricher separates the attachments of one response body following
// the same strategy, removing the carrier elements so callers receive a body
// matching the declared output type
type ResponseEnricher interface {
	Enrich(body *etree.Element, operation string, exchange *Exchange) (map[string]message.Attachment, error)
}

type enricherBase struct {
	definition *introspection.Definition
}

func (e *enricherBase) operation(name string) (*introspection.OperationModel, error) {
	op, ok := e.definition.Operation(name)
	if !ok {
		return nil, soaperrors.NewBadRequestError("the [%s] operation is not present in the service definition", name)
	}
	return op, nil
}

// checkDeclaredAttachments validates that every declared part comes with a
// provided attachment
func checkDeclaredAttachments(operation string, declared []introspection.Part, attachments map[string]message.Attachment) error {
	for _, part := range declared {
		if _, ok := attachments[part.Name]; !ok {
			return soaperrors.NewBadRequestError("the [%s] attachment is required by the [%s] operation and was not provided", part.Name, operation)
		}
	}
	return nil
}

// attachmentElement finds the carrier element of an attachment part inside
// the body content, creating one when the body does not carry it yet
func attachmentElement(content *etree.Element, wireName string) *etree.Element {
	if element := findDescendant(content, wireName); nil != element {
		return element
	}
	return content.CreateElement(wireName)
}

func findDescendant(element *etree.Element, tag string) *etree.Element {
	if nil == element {
		return nil
	}
	if selected := element.SelectElement(tag); nil != selected {
		return selected
	}
	for _, child := range element.ChildElements() {
		if found := findDescendant(child, tag); nil != found {
			return found
		}
	}
	return nil
}

func clearElement(element *etree.Element) {
	for 0 < len(element.Child) {
		element.RemoveChild(element.Child[0])
	}
}

func removeElement(element *etree.Element) {
	if parent := element.Parent(); nil != parent {
		parent.RemoveChild(element)
	}
}

// undeclaredNames lists the provided attachment names without a declared
// part, sorted for deterministic handling
func undeclaredNames(declared []introspection.Part, attachments map[string]message.Attachment) []string {
	names := []string{}
	for name := range attachments {
		found := false
		for _, part := range declared {
			if part.Name == name {
				found = true
				break
			}
		}
		if !found {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func attachmentContentType(part introspection.Part, provided string) string {
	if "" != provided {
		return provided
	}
	if "" != part.ContentType {
		return part.ContentType
	}
	return binaryContentType
}
