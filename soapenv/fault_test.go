package soapenv

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kevinyjn/gowsc/testingutil"
)

func soap11Message(body string, header string) []byte {
	return []byte(fmt.Sprintf(
		`<soap:Envelope xmlns:soap="%s"><soap:Header>%s</soap:Header><soap:Body>%s</soap:Body></soap:Envelope>`,
		Soap11Namespace, header, body))
}

func soap12Message(body string) []byte {
	return []byte(fmt.Sprintf(
		`<env:Envelope xmlns:env="%s"><env:Body>%s</env:Body></env:Envelope>`,
		Soap12Namespace, body))
}

func TestParseEnvelope(t *testing.T) {
	envelope, err := ParseEnvelope(soap11Message(`<echoResponse><text>hello</text></echoResponse>`, `<session>1652</session>`))
	testingutil.AssertNil(t, err, "ParseEnvelope error")
	testingutil.AssertEquals(t, SOAP11, envelope.Version(), "detected version")
	testingutil.AssertEquals(t, "echoResponse", envelope.BodyContent().Tag, "body content tag")
	testingutil.AssertNil(t, envelope.Fault(), "fault of a payload response")

	headers := envelope.SoapHeaders()
	testingutil.AssertEquals(t, 1, len(headers), "soap headers count")
	testingutil.AssertEquals(t, "<session>1652</session>", headers["session"], "session header")
}

func TestParseEnvelopeRejectsGarbage(t *testing.T) {
	_, err := ParseEnvelope([]byte(`it is not a soap message`))
	testingutil.AssertNotNil(t, err, "ParseEnvelope(garbage) error")

	_, err = ParseEnvelope([]byte(`<response/>`))
	testingutil.AssertNotNil(t, err, "ParseEnvelope(not an envelope) error")

	_, err = ParseEnvelope([]byte(`<Envelope xmlns="urn:unknown"><Body/></Envelope>`))
	testingutil.AssertNotNil(t, err, "ParseEnvelope(unknown namespace) error")

	_, err = ParseEnvelope([]byte(fmt.Sprintf(`<soap:Envelope xmlns:soap="%s"></soap:Envelope>`, Soap11Namespace)))
	testingutil.AssertNotNil(t, err, "ParseEnvelope(no body) error")
}

func TestParseSoap11Fault(t *testing.T) {
	envelope, err := ParseEnvelope(soap11Message(
		`<soap:Fault><faultcode>soap:Client</faultcode><faultstring>invalid request</faultstring>`+
			`<detail><reason>missing argument</reason></detail></soap:Fault>`, ""))
	testingutil.AssertNil(t, err, "ParseEnvelope error")
	fault := envelope.Fault()
	testingutil.AssertNotNil(t, fault, "parsed fault")
	testingutil.AssertEquals(t, "Client", fault.Code, "fault code local part")
	testingutil.AssertEquals(t, "invalid request", fault.Reason, "fault reason")
	testingutil.AssertTrue(t, strings.Contains(fault.Detail, "<reason>missing argument</reason>"), "fault detail")
	testingutil.AssertEquals(t, "", fault.Subcode, "fault subcode under soap 1.1")
	testingutil.AssertEquals(t, "", fault.Node, "fault node under soap 1.1")
}

func TestParseSoap12Fault(t *testing.T) {
	envelope, err := ParseEnvelope(soap12Message(
		`<env:Fault><env:Code><env:Value>env:Sender</env:Value>` +
			`<env:Subcode><env:Value>ns1:BadArguments</env:Value></env:Subcode></env:Code>` +
			`<env:Reason><env:Text xml:lang="en">processing error</env:Text></env:Reason>` +
			`<env:Node>http://origin.example.org</env:Node>` +
			`<env:Role>http://gateway.example.org</env:Role>` +
			`<env:Detail><failure>downstream timeout</failure></env:Detail></env:Fault>`))
	testingutil.AssertNil(t, err, "ParseEnvelope error")
	testingutil.AssertEquals(t, SOAP12, envelope.Version(), "detected version")
	fault := envelope.Fault()
	testingutil.AssertNotNil(t, fault, "parsed fault")
	testingutil.AssertEquals(t, "Sender", fault.Code, "fault code local part")
	testingutil.AssertEquals(t, "BadArguments", fault.Subcode, "fault subcode local part")
	testingutil.AssertEquals(t, "processing error", fault.Reason, "fault reason")
	testingutil.AssertEquals(t, "http://origin.example.org", fault.Node, "fault node")
	testingutil.AssertEquals(t, "http://gateway.example.org", fault.Role, "fault role")
	testingutil.AssertTrue(t, strings.Contains(fault.Detail, "downstream timeout"), "fault detail")
}

func TestParseFaultWithoutDetail(t *testing.T) {
	envelope, err := ParseEnvelope(soap11Message(`<soap:Fault><faultcode>Server</faultcode></soap:Fault>`, ""))
	testingutil.AssertNil(t, err, "ParseEnvelope error")
	fault := envelope.Fault()
	testingutil.AssertNotNil(t, fault, "parsed fault")
	testingutil.AssertEquals(t, "Server", fault.Code, "unprefixed fault code")
	testingutil.AssertEquals(t, "", fault.Detail, "absent fault detail")
}

func TestParseEmptyBody(t *testing.T) {
	envelope, err := ParseEnvelope(soap11Message("", ""))
	testingutil.AssertNil(t, err, "ParseEnvelope error")
	testingutil.AssertNil(t, envelope.BodyContent(), "empty body content")
	testingutil.AssertNil(t, envelope.Fault(), "fault of an empty body")
	testingutil.AssertEquals(t, 0, len(envelope.SoapHeaders()), "headers of an empty header block")
}
