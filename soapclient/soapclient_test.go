package soapclient

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kevinyjn/gowsc/dispatcher"
	"github.com/kevinyjn/gowsc/introspection"
	"github.com/kevinyjn/gowsc/message"
	"github.com/kevinyjn/gowsc/metadata"
	"github.com/kevinyjn/gowsc/security"
	"github.com/kevinyjn/gowsc/soapenv"
	"github.com/kevinyjn/gowsc/soaperrors"
	"github.com/kevinyjn/gowsc/testingutil"
	"github.com/kevinyjn/gowsc/xmlutils"
	"github.com/kevinyjn/gowsc/xop"
)

const testServiceAddress = "http://backend.example.org/services/attachment"

type stubDispatcher struct {
	requests []*dispatcher.DispatchingRequest
	response *dispatcher.DispatchingResponse
	err      error
}

func (d *stubDispatcher) Dispatch(request *dispatcher.DispatchingRequest) (*dispatcher.DispatchingResponse, error) {
	d.requests = append(d.requests, request)
	if nil != d.err {
		return nil, d.err
	}
	return d.response, nil
}

func newClientDefinition() *introspection.Definition {
	return introspection.NewDefinition("AttachmentService", "AttachmentPort",
		introspection.NewOperation("echo",
			introspection.WithSoapAction("urn:echo"),
			introspection.WithInputBody(introspection.Part{Name: "body", Element: "echo"}),
			introspection.WithOutputBody(introspection.Part{Name: "body", Element: "echoResponse"}),
		),
		introspection.NewOperation("uploadAttachment",
			introspection.WithInputBody(introspection.Part{Name: "body", Element: "uploadAttachment"}),
			introspection.WithOutputBody(introspection.Part{Name: "body", Element: "uploadAttachmentResponse"}),
			introspection.WithInputAttachments(introspection.Part{Name: "attachment", ContentType: "application/octet-stream"}),
		),
		introspection.NewOperation("downloadAttachment",
			introspection.WithInputBody(introspection.Part{Name: "body", Element: "downloadAttachment"}),
			introspection.WithOutputAttachments(introspection.Part{Name: "attachment", ContentType: "application/octet-stream"}),
		),
		introspection.NewOperation("fireAndForget",
			introspection.WithOneWay(),
			introspection.WithInputBody(introspection.Part{Name: "body", Element: "fireAndForget"}),
		),
	)
}

func newClientLoader() *metadata.StaticTypeLoader {
	return metadata.NewStaticTypeLoader().
		Register("echo", metadata.NewObjectType(metadata.ObjectField{Name: "text", Type: metadata.ScalarType{}})).
		Register("uploadAttachment", metadata.NewObjectType()).
		Register("downloadAttachment", metadata.NewObjectType())
}

func newClient(t *testing.T, d dispatcher.MessageDispatcher, options ...ClientOption) *SoapClient {
	configured := append([]ClientOption{WithDispatcher(d), WithTypeLoader(newClientLoader())}, options...)
	client, err := NewSoapClient(testServiceAddress, newClientDefinition(), configured...)
	testingutil.AssertNil(t, err, "NewSoapClient error")
	return client
}

func soap11Response(body string) []byte {
	return []byte(fmt.Sprintf(`<soap:Envelope xmlns:soap="%s"><soap:Header/><soap:Body>%s</soap:Body></soap:Envelope>`,
		soapenv.Soap11Namespace, body))
}

func stubbedResponse(body string) *dispatcher.DispatchingResponse {
	return &dispatcher.DispatchingResponse{
		Content:     soap11Response(body),
		ContentType: "text/xml; charset=UTF-8",
		StatusCode:  200,
	}
}

func TestConsumeEchoOperation(t *testing.T) {
	d := &stubDispatcher{response: stubbedResponse(`<echoResponse><text>hello</text></echoResponse>`)}
	d.response.Headers = map[string]string{"X-Request-Id": "42"}
	client := newClient(t, d)
	response, err := client.Consume(message.NewSoapRequest("echo",
		message.WithRequestContent([]byte(`<echo><text>hello</text></echo>`)),
		message.WithTransportHeader("X-Channel", "backend"),
	))
	testingutil.AssertNil(t, err, "Consume(echo) error")
	testingutil.AssertNotNil(t, response, "Consume(echo) response")
	testingutil.AssertTrue(t, response.HasContent(), "response content present")
	testingutil.AssertSimilarXML(t, `<echoResponse><text>hello</text></echoResponse>`, string(response.Content()), "response body")
	testingutil.AssertEquals(t, "42", response.TransportHeaders()["X-Request-Id"], "response transport header")

	testingutil.AssertEquals(t, 1, len(d.requests), "dispatched request count")
	posted := d.requests[0]
	testingutil.AssertEquals(t, testServiceAddress, posted.Address, "dispatched address")
	testingutil.AssertEquals(t, "text/xml; charset=UTF-8", posted.ContentType, "dispatched content type")
	testingutil.AssertEquals(t, `"urn:echo"`, posted.Headers["SOAPAction"], "dispatched soap action header")
	testingutil.AssertEquals(t, "backend", posted.Headers["X-Channel"], "dispatched transport header")
	envelope, err := soapenv.ParseEnvelope(posted.Content)
	testingutil.AssertNil(t, err, "posted envelope parse error")
	testingutil.AssertEquals(t, soapenv.SOAP11, envelope.Version(), "posted envelope version")
	content, err := xmlutils.NodeToString(envelope.BodyContent())
	testingutil.AssertNil(t, err, "posted body serialize error")
	testingutil.AssertSimilarXML(t, `<echo><text>hello</text></echo>`, content, "posted body")
	fmt.Println("posted envelope:", string(posted.Content))
}

func TestConsumeRequiresRequest(t *testing.T) {
	d := &stubDispatcher{}
	client := newClient(t, d)
	_, err := client.Consume(nil)
	badRequest := &soaperrors.BadRequestError{}
	testingutil.AssertTrue(t, errors.As(err, &badRequest), "Consume(nil) as bad request")
	testingutil.AssertEquals(t, 0, len(d.requests), "dispatched request count")
}

func TestConsumeMalformedBody(t *testing.T) {
	d := &stubDispatcher{}
	client := newClient(t, d)
	_, err := client.Consume(message.NewSoapRequest("echo",
		message.WithRequestContent([]byte(`<echo><text>`)),
	))
	badRequest := &soaperrors.BadRequestError{}
	testingutil.AssertTrue(t, errors.As(err, &badRequest), "Consume(malformed) as bad request")
	testingutil.AssertEquals(t, 0, len(d.requests), "dispatched request count")
}

func TestConsumeUnknownOperation(t *testing.T) {
	d := &stubDispatcher{}
	client := newClient(t, d)
	_, err := client.Consume(message.NewSoapRequest("missingOperation"))
	badRequest := &soaperrors.BadRequestError{}
	testingutil.AssertTrue(t, errors.As(err, &badRequest), "Consume(missingOperation) as bad request")
	testingutil.AssertStringContains(t, err.Error(), "missingOperation", "bad request message")
	testingutil.AssertEquals(t, 0, len(d.requests), "dispatched request count")
}

func TestConsumeBadSoapHeader(t *testing.T) {
	d := &stubDispatcher{}
	client := newClient(t, d)
	_, err := client.Consume(message.NewSoapRequest("echo",
		message.WithRequestContent([]byte(`<echo><text>hello</text></echo>`)),
		message.WithSoapHeader("auth", `<credentials><token>`),
	))
	badRequest := &soaperrors.BadRequestError{}
	testingutil.AssertTrue(t, errors.As(err, &badRequest), "Consume(bad header) as bad request")
	testingutil.AssertStringContains(t, err.Error(), "[auth]", "bad request message")
	testingutil.AssertEquals(t, 0, len(d.requests), "dispatched request count")
}

func TestConsumeBindsSoapHeadersSorted(t *testing.T) {
	d := &stubDispatcher{response: stubbedResponse(`<echoResponse/>`)}
	client := newClient(t, d)
	_, err := client.Consume(message.NewSoapRequest("echo",
		message.WithRequestContent([]byte(`<echo><text>hello</text></echo>`)),
		message.WithSoapHeader("beta", `<beta xmlns="urn:headers">2</beta>`),
		message.WithSoapHeader("alpha", `<alpha xmlns="urn:headers">1</alpha>`),
	))
	testingutil.AssertNil(t, err, "Consume(echo) error")
	doc, err := xmlutils.BytesToDocument(d.requests[0].Content)
	testingutil.AssertNil(t, err, "posted document parse error")
	header := doc.FindElement("//Header")
	testingutil.AssertNotNil(t, header, "posted envelope header")
	children := header.ChildElements()
	testingutil.AssertEquals(t, 2, len(children), "posted header block count")
	testingutil.AssertEquals(t, "alpha", children[0].Tag, "first posted header block")
	testingutil.AssertEquals(t, "beta", children[1].Tag, "second posted header block")
}

func TestConsumeSoapFault(t *testing.T) {
	d := &stubDispatcher{response: &dispatcher.DispatchingResponse{
		Content: soap11Response(`<soap:Fault xmlns:soap="` + soapenv.Soap11Namespace + `">` +
			`<faultcode>soap:Server</faultcode><faultstring>something broke</faultstring>` +
			`<detail>backend failure</detail></soap:Fault>`),
		ContentType: "text/xml; charset=UTF-8",
		StatusCode:  500,
	}}
	client := newClient(t, d)
	_, err := client.Consume(message.NewSoapRequest("echo",
		message.WithRequestContent([]byte(`<echo><text>hello</text></echo>`)),
	))
	fault := &soaperrors.SoapFaultError{}
	testingutil.AssertTrue(t, errors.As(err, &fault), "Consume(fault) as soap fault")
	testingutil.AssertEquals(t, "Server", fault.Code, "fault code")
	testingutil.AssertEquals(t, "something broke", fault.Reason, "fault reason")
	testingutil.AssertStringContains(t, fault.Detail, "backend failure", "fault detail")
}

func TestConsumeUnreadableRequestFault(t *testing.T) {
	d := &stubDispatcher{response: &dispatcher.DispatchingResponse{
		Content: soap11Response(`<soap:Fault xmlns:soap="` + soapenv.Soap11Namespace + `">` +
			`<faultcode>soap:Client</faultcode><faultstring>COULD_NOT_READ_XML</faultstring></soap:Fault>`),
		ContentType: "text/xml; charset=UTF-8",
		StatusCode:  400,
	}}
	client := newClient(t, d)
	_, err := client.Consume(message.NewSoapRequest("echo",
		message.WithRequestContent([]byte(`<echo><text>hello</text></echo>`)),
	))
	badRequest := &soaperrors.BadRequestError{}
	testingutil.AssertTrue(t, errors.As(err, &badRequest), "Consume(unreadable fault) as bad request")
	testingutil.AssertStringContains(t, err.Error(), "[echo]", "bad request message")
	testingutil.AssertStringContains(t, err.Error(), "not a valid XML", "bad request message")
}

func TestConsumeOneWayOperation(t *testing.T) {
	d := &stubDispatcher{response: &dispatcher.DispatchingResponse{
		Content:     []byte(`<html><body>accepted</body></html>`),
		ContentType: "text/html",
		Headers:     map[string]string{"X-Request-Id": "42"},
		StatusCode:  202,
	}}
	client := newClient(t, d)
	response, err := client.Consume(message.NewSoapRequest("fireAndForget",
		message.WithRequestContent([]byte(`<fireAndForget/>`)),
	))
	testingutil.AssertNil(t, err, "Consume(fireAndForget) error")
	testingutil.AssertEquals(t, 1, len(d.requests), "dispatched request count")
	testingutil.AssertFalse(t, response.HasContent(), "one way response content")
	testingutil.AssertEquals(t, 0, len(response.Attachments()), "one way response attachments")
	testingutil.AssertEquals(t, "42", response.TransportHeaders()["X-Request-Id"], "one way response transport header")
}

func TestConsumeMtomRequest(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}
	d := &stubDispatcher{response: stubbedResponse(`<uploadAttachmentResponse/>`)}
	client := newClient(t, d, WithMtom(true))
	response, err := client.Consume(message.NewSoapRequest("uploadAttachment",
		message.WithRequestContent([]byte(`<uploadAttachment><attachment/></uploadAttachment>`)),
		message.WithAttachment("attachment", message.Attachment{Content: payload, ContentType: "image/png"}),
	))
	testingutil.AssertNil(t, err, "Consume(uploadAttachment) error")
	testingutil.AssertTrue(t, response.HasContent(), "response content present")

	posted := d.requests[0]
	testingutil.AssertTrue(t, xop.IsMultipartRelated(posted.ContentType), "dispatched content type is multipart")
	root, rootContentType, parts, err := xop.Decode(posted.ContentType, posted.Content)
	testingutil.AssertNil(t, err, "decode dispatched package error")
	testingutil.AssertStringContains(t, rootContentType, "application/xop+xml", "dispatched root content type")
	testingutil.AssertEquals(t, 1, len(parts), "dispatched binary part count")
	testingutil.AssertBytesEquals(t, payload, parts[0].Content, "dispatched binary part content")
	testingutil.AssertEquals(t, "image/png", parts[0].ContentType, "dispatched binary part content type")

	doc, err := xmlutils.BytesToDocument(root)
	testingutil.AssertNil(t, err, "dispatched root document parse error")
	carrier := doc.FindElement("//attachment")
	testingutil.AssertNotNil(t, carrier, "dispatched attachment carrier")
	contentID, ok := xop.IncludedContentID(carrier)
	testingutil.AssertTrue(t, ok, "dispatched attachment include")
	testingutil.AssertEquals(t, parts[0].ContentID, contentID, "dispatched attachment content id")
}

func TestConsumeMtomResponse(t *testing.T) {
	payload := []byte{0x25, 0x50, 0x44, 0x46}
	body := soap11Response(`<downloadAttachmentResponse>` +
		`<attachment><xop:Include xmlns:xop="` + xop.Namespace + `" href="cid:file-1@backend"/></attachment>` +
		`</downloadAttachmentResponse>`)
	content, contentType, err := xop.Encode(body, soapenv.Soap11ContentType, []xop.Part{
		{ContentID: "file-1@backend", ContentType: "application/pdf", Content: payload},
	})
	if nil != err {
		t.Fatalf("encode stub response failed with error:%v", err)
	}
	d := &stubDispatcher{response: &dispatcher.DispatchingResponse{
		Content:     content,
		ContentType: contentType,
		StatusCode:  200,
	}}
	client := newClient(t, d, WithMtom(true))
	response, err := client.Consume(message.NewSoapRequest("downloadAttachment",
		message.WithRequestContent([]byte(`<downloadAttachment/>`)),
	))
	testingutil.AssertNil(t, err, "Consume(downloadAttachment) error")
	attachment, ok := response.Attachments()["attachment"]
	testingutil.AssertTrue(t, ok, "resolved response attachment")
	testingutil.AssertBytesEquals(t, payload, attachment.Content, "resolved attachment content")
	testingutil.AssertEquals(t, "application/pdf", attachment.ContentType, "resolved attachment content type")
	doc, err := xmlutils.BytesToDocument(response.Content())
	testingutil.AssertNil(t, err, "response body parse error")
	testingutil.AssertNil(t, doc.FindElement("//attachment"), "carrier removed from response body")
}

func TestConsumeInlineAttachmentRequest(t *testing.T) {
	payload := []byte("inline binary payload")
	d := &stubDispatcher{response: stubbedResponse(`<uploadAttachmentResponse/>`)}
	client := newClient(t, d)
	_, err := client.Consume(message.NewSoapRequest("uploadAttachment",
		message.WithRequestContent([]byte(`<uploadAttachment/>`)),
		message.WithAttachment("attachment", message.Attachment{Content: payload}),
	))
	testingutil.AssertNil(t, err, "Consume(uploadAttachment) error")
	posted := d.requests[0]
	testingutil.AssertStringContains(t, posted.ContentType, "text/xml", "dispatched content type")
	doc, err := xmlutils.BytesToDocument(posted.Content)
	testingutil.AssertNil(t, err, "posted document parse error")
	carrier := doc.FindElement("//attachment")
	testingutil.AssertNotNil(t, carrier, "posted attachment carrier")
	testingutil.AssertEquals(t, base64.StdEncoding.EncodeToString(payload), strings.TrimSpace(carrier.Text()), "posted attachment encoding")
}

func TestConsumeInlineAttachmentResponse(t *testing.T) {
	payload := []byte("downloaded payload")
	d := &stubDispatcher{response: stubbedResponse(`<downloadAttachmentResponse>` +
		`<attachment>` + base64.StdEncoding.EncodeToString(payload) + `</attachment>` +
		`</downloadAttachmentResponse>`)}
	client := newClient(t, d)
	response, err := client.Consume(message.NewSoapRequest("downloadAttachment",
		message.WithRequestContent([]byte(`<downloadAttachment/>`)),
	))
	testingutil.AssertNil(t, err, "Consume(downloadAttachment) error")
	attachment, ok := response.Attachments()["attachment"]
	testingutil.AssertTrue(t, ok, "decoded response attachment")
	testingutil.AssertBytesEquals(t, payload, attachment.Content, "decoded attachment content")
}

func TestConsumeSoap12(t *testing.T) {
	d := &stubDispatcher{response: &dispatcher.DispatchingResponse{
		Content: []byte(fmt.Sprintf(`<env:Envelope xmlns:env="%s"><env:Body><echoResponse/></env:Body></env:Envelope>`,
			soapenv.Soap12Namespace)),
		ContentType: "application/soap+xml; charset=UTF-8",
		StatusCode:  200,
	}}
	client := newClient(t, d, WithVersion(soapenv.SOAP12))
	response, err := client.Consume(message.NewSoapRequest("echo",
		message.WithRequestContent([]byte(`<echo><text>hello</text></echo>`)),
	))
	testingutil.AssertNil(t, err, "Consume(echo) error")
	testingutil.AssertTrue(t, response.HasContent(), "response content present")
	posted := d.requests[0]
	testingutil.AssertStringContains(t, posted.ContentType, "application/soap+xml", "dispatched content type")
	testingutil.AssertStringContains(t, posted.ContentType, `action="urn:echo"`, "dispatched action parameter")
	testingutil.AssertEquals(t, "", posted.Headers["SOAPAction"], "soap action transport header absent")
	envelope, err := soapenv.ParseEnvelope(posted.Content)
	testingutil.AssertNil(t, err, "posted envelope parse error")
	testingutil.AssertEquals(t, soapenv.SOAP12, envelope.Version(), "posted envelope version")
}

func TestConsumeDispatchingErrorPassesThrough(t *testing.T) {
	cause := errors.New("connection refused")
	d := &stubDispatcher{err: soaperrors.NewDispatchingError("query http://backend.example.org failed", cause)}
	client := newClient(t, d)
	_, err := client.Consume(message.NewSoapRequest("echo",
		message.WithRequestContent([]byte(`<echo><text>hello</text></echo>`)),
	))
	dispatchingErr := &soaperrors.DispatchingError{}
	testingutil.AssertTrue(t, errors.As(err, &dispatchingErr), "Consume(dispatch failure) as dispatching error")
	serviceErr := &soaperrors.ServiceError{}
	testingutil.AssertFalse(t, errors.As(err, &serviceErr), "dispatching error left unwrapped")
}

func TestConsumeGarbageResponse(t *testing.T) {
	d := &stubDispatcher{response: &dispatcher.DispatchingResponse{
		Content:     []byte(`<html><body>gateway timeout</body></html>`),
		ContentType: "text/html",
		StatusCode:  504,
	}}
	client := newClient(t, d)
	_, err := client.Consume(message.NewSoapRequest("echo",
		message.WithRequestContent([]byte(`<echo><text>hello</text></echo>`)),
	))
	serviceErr := &soaperrors.ServiceError{}
	testingutil.AssertTrue(t, errors.As(err, &serviceErr), "Consume(garbage) as service error")
	testingutil.AssertEquals(t, "echo", serviceErr.Operation, "service error operation")
}

func TestConsumeAppliesSecurities(t *testing.T) {
	d := &stubDispatcher{response: stubbedResponse(`<echoResponse/>`)}
	client := newClient(t, d, WithSecurities(
		&security.TimestampSecurity{},
		&security.UsernameTokenSecurity{Username: "anakin", Password: "padme"},
	))
	_, err := client.Consume(message.NewSoapRequest("echo",
		message.WithRequestContent([]byte(`<echo><text>hello</text></echo>`)),
	))
	testingutil.AssertNil(t, err, "Consume(echo) error")
	doc, err := xmlutils.BytesToDocument(d.requests[0].Content)
	testingutil.AssertNil(t, err, "posted document parse error")
	testingutil.AssertNotNil(t, doc.FindElement("//Security/Timestamp"), "posted timestamp element")
	username := doc.FindElement("//Security/UsernameToken/Username")
	testingutil.AssertNotNil(t, username, "posted username element")
	testingutil.AssertEquals(t, "anakin", username.Text(), "posted username value")
}

func TestConsumeTranscodesResponse(t *testing.T) {
	utf8Body := soap11Response(`<echoResponse><text>中文响应</text></echoResponse>`)
	gbkBody, err := xmlutils.EncodeFromUTF8(utf8Body, "GBK")
	if nil != err {
		t.Fatalf("encode stub response failed with error:%v", err)
	}
	d := &stubDispatcher{response: &dispatcher.DispatchingResponse{
		Content:     gbkBody,
		ContentType: "text/xml; charset=GBK",
		StatusCode:  200,
	}}
	client := newClient(t, d)
	response, err := client.Consume(message.NewSoapRequest("echo",
		message.WithRequestContent([]byte(`<echo><text>你好</text></echo>`)),
	))
	testingutil.AssertNil(t, err, "Consume(echo) error")
	testingutil.AssertStringContains(t, string(response.Content()), "中文响应", "transcoded response content")
}

func TestConsumeEncodesRequest(t *testing.T) {
	d := &stubDispatcher{response: stubbedResponse(`<echoResponse/>`)}
	client := newClient(t, d, WithEncoding("GBK"))
	_, err := client.Consume(message.NewSoapRequest("echo",
		message.WithRequestContent([]byte(`<echo><text>你好</text></echo>`)),
	))
	testingutil.AssertNil(t, err, "Consume(echo) error")
	posted := d.requests[0]
	testingutil.AssertStringContains(t, posted.ContentType, "charset=GBK", "dispatched content type")
	testingutil.AssertStringContains(t, string(posted.Content), `encoding="GBK"`, "dispatched declaration")
	transcoded, err := xmlutils.TranscodeToUTF8(posted.Content, "GBK")
	testingutil.AssertNil(t, err, "transcode dispatched content error")
	testingutil.AssertStringContains(t, string(transcoded), "你好", "dispatched body text")
}

func TestNewSoapClientValidations(t *testing.T) {
	_, err := NewSoapClient("", newClientDefinition())
	testingutil.AssertNotNil(t, err, "NewSoapClient(no address) error")
	_, err = NewSoapClient(testServiceAddress, nil)
	testingutil.AssertNotNil(t, err, "NewSoapClient(no definition) error")
}

func TestSoapClientString(t *testing.T) {
	client := newClient(t, &stubDispatcher{}, WithMtom(true))
	value := client.String()
	testingutil.AssertStringContains(t, value, testServiceAddress, "client description address")
	testingutil.AssertStringContains(t, value, "AttachmentService", "client description service")
	testingutil.AssertStringContains(t, value, "SOAP11", "client description version")
	testingutil.AssertStringContains(t, value, "mtom:true", "client description mtom flag")
}

func TestMetadataResolverFromClient(t *testing.T) {
	client := newClient(t, &stubDispatcher{})
	resolver := client.MetadataResolver()
	testingutil.AssertNotNil(t, resolver, "metadata resolver")
	operations := resolver.GetAvailableOperations()
	testingutil.AssertEquals(t, 4, len(operations), "available operation count")
}
