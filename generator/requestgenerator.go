package generator

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/kevinyjn/gowsc/introspection"
	"github.com/kevinyjn/gowsc/message"
	"github.com/kevinyjn/gowsc/metadata"
	"github.com/kevinyjn/gowsc/soapenv"
	"github.com/kevinyjn/gowsc/soaperrors"
	"github.com/kevinyjn/gowsc/xmlutils"
	"github.com/kevinyjn/gowsc/xop"
)

// SoapRequestGenerator produces the outbound envelope of one operation
// invocation from the optional raw body and the request attachments
type SoapRequestGenerator struct {
	definition *introspection.Definition
	loader     metadata.TypeLoader
	version    soapenv.SoapVersion
	enricher   RequestEnricher
}

// NewSoapRequestGenerator builds a request generator
func NewSoapRequestGenerator(definition *introspection.Definition, loader metadata.TypeLoader, version soapenv.SoapVersion, enricher RequestEnricher) *SoapRequestGenerator {
	return &SoapRequestGenerator{
		definition: definition,
		loader:     loader,
		version:    version,
		enricher:   enricher,
	}
}

// Generate builds the operation envelope. An empty body synthesizes a
// default request element, which covers parameterless and attachment only
// operations. The returned parts are the binary parts the transport must
// carry alongside the envelope.
func (g *SoapRequestGenerator) Generate(operation string, body []byte, attachments map[string]message.Attachment) (*soapenv.Envelope, []xop.Part, error) {
	op, ok := g.definition.Operation(operation)
	if !ok {
		return nil, nil, soaperrors.NewBadRequestError("the [%s] operation is not present in the service definition", operation)
	}
	content, err := g.requestElement(op, body)
	if nil != err {
		return nil, nil, err
	}
	envelope := soapenv.NewEnvelope(g.version)
	envelope.SetBodyContent(content)
	parts, err := g.enricher.Enrich(envelope, operation, attachments)
	if nil != err {
		return nil, nil, err
	}
	return envelope, parts, nil
}

func (g *SoapRequestGenerator) requestElement(op *introspection.OperationModel, body []byte) (*etree.Element, error) {
	if 0 == len(body) {
		return g.emptyRequestElement(op)
	}
	if err := xmlutils.CheckWellFormed(body); nil != err {
		return nil, &soaperrors.BadRequestError{
			Message: fmt.Sprintf("the request body for the [%s] operation is not a valid XML", op.Name()),
			Cause:   err,
		}
	}
	doc, err := xmlutils.BytesToDocument(body)
	if nil != err {
		return nil, &soaperrors.BadRequestError{
			Message: fmt.Sprintf("the request body for the [%s] operation is not a valid XML", op.Name()),
			Cause:   err,
		}
	}
	return doc.Root(), nil
}

// emptyRequestElement synthesizes the body element of an operation invoked
// without content. An operation whose input type declares fields cannot be
// defaulted, the caller has to provide the parameters.
func (g *SoapRequestGenerator) emptyRequestElement(op *introspection.OperationModel) (*etree.Element, error) {
	part := op.InputBodyPart()
	if nil == part {
		return etree.NewElement(op.Name()), nil
	}
	if loaded, ok := g.loader.Load(part.WireName()); ok {
		if object, isObject := loaded.(*metadata.ObjectType); isObject && 0 < len(object.Fields()) {
			return nil, soaperrors.NewBadRequestError("cannot build a default request for the [%s] operation, the operation requires input parameters", op.Name())
		}
	}
	return etree.NewElement(part.WireName()), nil
}
