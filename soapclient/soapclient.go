package soapclient

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kevinyjn/gowsc/dispatcher"
	"github.com/kevinyjn/gowsc/generator"
	"github.com/kevinyjn/gowsc/introspection"
	"github.com/kevinyjn/gowsc/logger"
	"github.com/kevinyjn/gowsc/message"
	"github.com/kevinyjn/gowsc/metadata"
	"github.com/kevinyjn/gowsc/security"
	"github.com/kevinyjn/gowsc/soapenv"
	"github.com/kevinyjn/gowsc/soaperrors"
	"github.com/kevinyjn/gowsc/xmlutils"
	"github.com/kevinyjn/gowsc/xop"
)

// DebugSoapMessages debugger flag, traces the wire level messages
var DebugSoapMessages = false

// couldNotReadXMLMark marks faults some stacks raise when the request body
// could not be read as XML, such faults surface as request errors instead of
// protocol faults
const couldNotReadXMLMark = "COULD_NOT_READ_XML"

type soapClientOption struct {
	version          soapenv.SoapVersion
	mtom             bool
	encoding         string
	loader           metadata.TypeLoader
	dispatcher       dispatcher.MessageDispatcher
	securities       []security.SecurityStrategy
	transportHeaders map[string]string
}

// ClientOption soap client options
type ClientOption interface {
	apply(*soapClientOption)
}

type funcSOAPClientOption struct {
	f func(*soapClientOption)
}

func (fdo *funcSOAPClientOption) apply(do *soapClientOption) {
	fdo.f(do)
}

func newFuncSOAPClientOption(f func(*soapClientOption)) *funcSOAPClientOption {
	return &funcSOAPClientOption{f: f}
}

func defaultSOAPClientOption() soapClientOption {
	return soapClientOption{
		version:          soapenv.SOAP11,
		encoding:         xmlutils.CharsetUTF8,
		loader:           metadata.NewStaticTypeLoader(),
		transportHeaders: map[string]string{},
	}
}

// WithVersion option that selects the soap protocol version
func WithVersion(version soapenv.SoapVersion) ClientOption {
	return newFuncSOAPClientOption(func(o *soapClientOption) {
		o.version = version
	})
}

// WithMtom option that selects the mtom attachment strategy instead of the
// inline base64 one
func WithMtom(mtom bool) ClientOption {
	return newFuncSOAPClientOption(func(o *soapClientOption) {
		o.mtom = mtom
	})
}

// WithEncoding option that selects the outbound document charset
func WithEncoding(encoding string) ClientOption {
	return newFuncSOAPClientOption(func(o *soapClientOption) {
		if "" != encoding {
			o.encoding = encoding
		}
	})
}

// WithTypeLoader option
func WithTypeLoader(loader metadata.TypeLoader) ClientOption {
	return newFuncSOAPClientOption(func(o *soapClientOption) {
		if nil != loader {
			o.loader = loader
		}
	})
}

// WithDispatcher option that replaces the default http dispatcher
func WithDispatcher(d dispatcher.MessageDispatcher) ClientOption {
	return newFuncSOAPClientOption(func(o *soapClientOption) {
		o.dispatcher = d
	})
}

// WithSecurities option, the strategies apply in the given order
func WithSecurities(securities ...security.SecurityStrategy) ClientOption {
	return newFuncSOAPClientOption(func(o *soapClientOption) {
		o.securities = append(o.securities, securities...)
	})
}

// WithTransportHeader option that carries a fixed transport header on every
// consumed operation
func WithTransportHeader(name string, value string) ClientOption {
	return newFuncSOAPClientOption(func(o *soapClientOption) {
		o.transportHeaders[name] = value
	})
}

// WithTransportHeaders option
func WithTransportHeaders(headers map[string]string) ClientOption {
	return newFuncSOAPClientOption(func(o *soapClientOption) {
		for name, value := range headers {
			o.transportHeaders[name] = value
		}
	})
}

// SoapClient consumes the operations of one soap web service port. All the
// collaborators are fixed at construction, instances are safe for concurrent
// use and keep no state between invocations.
type SoapClient struct {
	address           string
	definition        *introspection.Definition
	version           soapenv.SoapVersion
	mtom              bool
	encoding          string
	loader            metadata.TypeLoader
	dispatcher        dispatcher.MessageDispatcher
	securities        []security.SecurityStrategy
	transportHeaders  map[string]string
	requestGenerator  *generator.SoapRequestGenerator
	responseGenerator *generator.SoapResponseGenerator
}

// NewSoapClient builds a soap client for one service definition
func NewSoapClient(address string, definition *introspection.Definition, options ...ClientOption) (*SoapClient, error) {
	if "" == address {
		return nil, errors.New("the soap service address is required")
	}
	if nil == definition {
		return nil, errors.New("the service definition is required")
	}
	opts := defaultSOAPClientOption()
	for _, opt := range options {
		opt.apply(&opts)
	}
	if nil == opts.dispatcher {
		defaultDispatcher, err := dispatcher.NewHTTPDispatcher()
		if nil != err {
			return nil, err
		}
		opts.dispatcher = defaultDispatcher
	}
	// the mtom flag decides the enricher pair here once, shared code paths
	// never branch on it again
	var requestEnricher generator.RequestEnricher = generator.NewSoapAttachmentRequestEnricher(definition)
	var responseEnricher generator.ResponseEnricher = generator.NewSoapAttachmentResponseEnricher(definition)
	if opts.mtom {
		requestEnricher = generator.NewMtomRequestEnricher(definition)
		responseEnricher = generator.NewMtomResponseEnricher(definition)
	}
	return &SoapClient{
		address:           address,
		definition:        definition,
		version:           opts.version,
		mtom:              opts.mtom,
		encoding:          opts.encoding,
		loader:            opts.loader,
		dispatcher:        opts.dispatcher,
		securities:        opts.securities,
		transportHeaders:  opts.transportHeaders,
		requestGenerator:  generator.NewSoapRequestGenerator(definition, opts.loader, opts.version, requestEnricher),
		responseGenerator: generator.NewSoapResponseGenerator(definition, responseEnricher),
	}, nil
}

// Consume invokes one operation of the service. The request flows through
// generation, security enriching and dispatching, the raw result flows back
// through fault checking and response generation. Nothing is retried.
func (c *SoapClient) Consume(request *message.SoapRequest) (*message.SoapResponse, error) {
	if nil == request {
		return nil, soaperrors.NewBadRequestError("the soap request is required")
	}
	operation := request.Operation
	op, ok := c.definition.Operation(operation)
	if !ok {
		return nil, soaperrors.NewBadRequestError("the [%s] operation is not present in the service definition", operation)
	}
	envelope, parts, err := c.requestGenerator.Generate(operation, request.Content, request.Attachments)
	if nil != err {
		return nil, err
	}
	if err = c.bindSoapHeaders(envelope, request); nil != err {
		return nil, err
	}
	for _, strategy := range c.securities {
		if err = strategy.Apply(envelope); nil != err {
			return nil, soaperrors.NewServiceError(operation, err)
		}
	}
	content, contentType, err := c.serializeRequest(envelope, op, parts)
	if nil != err {
		return nil, soaperrors.NewServiceError(operation, err)
	}
	if DebugSoapMessages {
		logger.Trace.Printf("dispatching the [%s] operation with content type:%s body:\n%s", operation, contentType, string(content))
	}
	result, err := c.dispatcher.Dispatch(&dispatcher.DispatchingRequest{
		Address:     c.address,
		Content:     content,
		ContentType: contentType,
		Headers:     c.dispatchHeaders(op, request),
	})
	if nil != err {
		dispatchingErr := &soaperrors.DispatchingError{}
		if errors.As(err, &dispatchingErr) {
			return nil, err
		}
		return nil, soaperrors.NewServiceError(operation, err)
	}
	if DebugSoapMessages {
		logger.Trace.Printf("the [%s] operation answered status:%d content type:%s body:\n%s", operation, result.StatusCode, result.ContentType, string(result.Content))
	}
	return c.parseResponse(operation, op, result)
}

// bindSoapHeaders copies the request soap headers into the envelope header
// block, sorted so generated envelopes stay deterministic
func (c *SoapClient) bindSoapHeaders(envelope *soapenv.Envelope, request *message.SoapRequest) error {
	names := make([]string, 0, len(request.SoapHeaders))
	for name := range request.SoapHeaders {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := envelope.AddHeaderXML(name, request.SoapHeaders[name]); nil != err {
			return &soaperrors.BadRequestError{
				Message: fmt.Sprintf("cannot parse the input soap header [%s]", name),
				Cause:   err,
			}
		}
	}
	return nil
}

// serializeRequest writes the envelope in the configured charset and
// packages it with its binary parts when the enricher produced some
func (c *SoapClient) serializeRequest(envelope *soapenv.Envelope, op *introspection.OperationModel, parts []xop.Part) ([]byte, string, error) {
	content, err := envelope.SerializeBytes(c.encoding)
	if nil != err {
		return nil, "", err
	}
	if 0 < len(parts) {
		return xop.Encode(content, c.version.ContentType(), parts)
	}
	contentType := fmt.Sprintf("%s; charset=%s", c.version.ContentType(), c.encoding)
	if soapenv.SOAP12 == c.version {
		// soap 1.2 carries the action as a content type parameter
		contentType = fmt.Sprintf("%s; action=\"%s\"", contentType, c.soapAction(op))
	}
	return content, contentType, nil
}

func (c *SoapClient) dispatchHeaders(op *introspection.OperationModel, request *message.SoapRequest) map[string]string {
	headers := make(map[string]string, len(c.transportHeaders)+len(request.TransportHeaders)+1)
	for name, value := range c.transportHeaders {
		headers[name] = value
	}
	for name, value := range request.TransportHeaders {
		headers[name] = value
	}
	if soapenv.SOAP11 == c.version {
		// soap 1.1 expects the action as a quoted transport header
		headers["SOAPAction"] = fmt.Sprintf("%q", c.soapAction(op))
	}
	return headers
}

func (c *SoapClient) soapAction(op *introspection.OperationModel) string {
	if "" != op.SoapAction() {
		return op.SoapAction()
	}
	return op.Name()
}

// parseResponse unpacks the dispatched result into the structured response.
// One way operations skip every parsing step, whatever the transport
// answered.
func (c *SoapClient) parseResponse(operation string, op *introspection.OperationModel, result *dispatcher.DispatchingResponse) (*message.SoapResponse, error) {
	exchange := &generator.Exchange{ContentType: result.ContentType, TransportHeaders: result.Headers}
	if op.IsOneWay() {
		return c.responseGenerator.Generate(operation, nil, exchange)
	}
	content := result.Content
	contentType := result.ContentType
	if xop.IsMultipartRelated(contentType) {
		root, rootContentType, parts, err := xop.Decode(contentType, content)
		if nil != err {
			return nil, soaperrors.NewServiceError(operation, err)
		}
		content = root
		contentType = rootContentType
		exchange.Parts = parts
	}
	if charset := xmlutils.CharsetOf(contentType); !xmlutils.IsUTF8Charset(charset) {
		transcoded, err := xmlutils.TranscodeToUTF8(content, charset)
		if nil != err {
			return nil, soaperrors.NewServiceError(operation, err)
		}
		content = transcoded
	}
	envelope, err := soapenv.ParseEnvelope(content)
	if nil != err {
		return nil, soaperrors.NewServiceError(operation, err)
	}
	if fault := envelope.Fault(); nil != fault {
		return nil, c.faultError(operation, fault)
	}
	response, err := c.responseGenerator.Generate(operation, envelope, exchange)
	if nil != err {
		badRequest := &soaperrors.BadRequestError{}
		if errors.As(err, &badRequest) {
			return nil, err
		}
		return nil, soaperrors.NewServiceError(operation, err)
	}
	return response, nil
}

// faultError normalizes a protocol fault. Faults marking an unreadable
// request body surface as request errors.
func (c *SoapClient) faultError(operation string, fault *soapenv.Fault) error {
	if strings.Contains(fault.Reason, couldNotReadXMLMark) || strings.Contains(fault.Detail, couldNotReadXMLMark) {
		return soaperrors.NewBadRequestError("error consuming the operation [%s], the request body is not a valid XML", operation)
	}
	return &soaperrors.SoapFaultError{
		Code:    fault.Code,
		Subcode: fault.Subcode,
		Reason:  fault.Reason,
		Detail:  fault.Detail,
		Node:    fault.Node,
		Role:    fault.Role,
	}
}

// MetadataResolver builds the metadata facade over the client definition,
// metadata resolution never invokes the service
func (c *SoapClient) MetadataResolver() *metadata.SoapMetadataResolver {
	return metadata.NewSoapMetadataResolver(c.definition, c.loader)
}

// Definition getter
func (c *SoapClient) Definition() *introspection.Definition {
	return c.definition
}

func (c *SoapClient) String() string {
	return fmt.Sprintf("SoapClient{address:%s, service:%s, port:%s, version:%s, mtom:%t, encoding:%s}",
		c.address, c.definition.Service(), c.definition.Port(), c.version, c.mtom, c.encoding)
}
