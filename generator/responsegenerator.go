package generator

import (
	"fmt"

	"github.com/kevinyjn/gowsc/introspection"
	"github.com/kevinyjn/gowsc/message"
	"github.com/kevinyjn/gowsc/soapenv"
	"github.com/kevinyjn/gowsc/soaperrors"
	"github.com/kevinyjn/gowsc/xmlutils"
)

// SoapResponseGenerator produces the structured invocation result from the
// parsed response envelope and the wire exchange artifacts
type SoapResponseGenerator struct {
	definition *introspection.Definition
	enricher   ResponseEnricher
}

// NewSoapResponseGenerator builds a response generator
func NewSoapResponseGenerator(definition *introspection.Definition, enricher ResponseEnricher) *SoapResponseGenerator {
	return &SoapResponseGenerator{definition: definition, enricher: enricher}
}

// Generate assembles the soap response of one invocation. A one way
// operation yields a response without body nor attachments and the envelope
// is never inspected.
func (g *SoapResponseGenerator) Generate(operation string, envelope *soapenv.ParsedEnvelope, exchange *Exchange) (*message.SoapResponse, error) {
	op, ok := g.definition.Operation(operation)
	if !ok {
		return nil, soaperrors.NewBadRequestError("the [%s] operation is not present in the service definition", operation)
	}
	if nil == exchange {
		exchange = &Exchange{}
	}
	if op.IsOneWay() {
		return message.NewSoapResponse(nil, exchange.ContentType, nil, exchange.TransportHeaders, nil), nil
	}
	if nil == envelope {
		return nil, fmt.Errorf("the [%s] operation expects a response envelope", operation)
	}
	content := envelope.BodyContent()
	attachments, err := g.enricher.Enrich(content, operation, exchange)
	if nil != err {
		return nil, err
	}
	var body []byte
	if nil != content {
		serialized, err := xmlutils.NodeToString(content)
		if nil != err {
			return nil, err
		}
		body = []byte(serialized)
	}
	return message.NewSoapResponse(body, exchange.ContentType, envelope.SoapHeaders(), exchange.TransportHeaders, attachments), nil
}
