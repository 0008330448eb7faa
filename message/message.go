package message

// Attachment is one named binary payload travelling with a soap message.
// Values are immutable once constructed; the request side builds them from
// caller data, the response side from decoded wire content.
type Attachment struct {
	Content     []byte
	ContentType string
}

// SoapRequest describes one operation invocation: the operation name, an
// optional raw body XML, soap headers to bind into the envelope, transport
// headers for the dispatcher and named attachments.
type SoapRequest struct {
	Operation        string
	Content          []byte
	SoapHeaders      map[string]string
	TransportHeaders map[string]string
	Attachments      map[string]Attachment
}

// RequestOption soap request construction option
type RequestOption func(*SoapRequest)

// WithRequestContent sets the raw body XML of the request
func WithRequestContent(content []byte) RequestOption {
	return func(r *SoapRequest) {
		r.Content = content
	}
}

// WithSoapHeader binds one named soap header value, an XML fragment
func WithSoapHeader(name string, value string) RequestOption {
	return func(r *SoapRequest) {
		r.SoapHeaders[name] = value
	}
}

// WithTransportHeader binds one transport-level header
func WithTransportHeader(name string, value string) RequestOption {
	return func(r *SoapRequest) {
		r.TransportHeaders[name] = value
	}
}

// WithAttachment binds one named attachment
func WithAttachment(name string, attachment Attachment) RequestOption {
	return func(r *SoapRequest) {
		r.Attachments[name] = attachment
	}
}

// NewSoapRequest builds a soap request for one operation
func NewSoapRequest(operation string, options ...RequestOption) *SoapRequest {
	request := &SoapRequest{
		Operation:        operation,
		SoapHeaders:      make(map[string]string),
		TransportHeaders: make(map[string]string),
		Attachments:      make(map[string]Attachment),
	}
	for _, option := range options {
		option(request)
	}
	return request
}

// SoapResponse is the structured result of one successful invocation,
// constructed exactly once by the response generator. A nil content marks
// the absent body of a one-way operation.
type SoapResponse struct {
	content          []byte
	contentType      string
	soapHeaders      map[string]string
	transportHeaders map[string]string
	attachments      map[string]Attachment
}

// NewSoapResponse assembles a soap response
func NewSoapResponse(content []byte, contentType string, soapHeaders map[string]string, transportHeaders map[string]string, attachments map[string]Attachment) *SoapResponse {
	return &SoapResponse{
		content:          content,
		contentType:      contentType,
		soapHeaders:      copyHeaderMap(soapHeaders),
		transportHeaders: copyHeaderMap(transportHeaders),
		attachments:      copyAttachmentMap(attachments),
	}
}

// Content is the resulting body XML, nil for one-way operations
func (r *SoapResponse) Content() []byte {
	return r.content
}

// HasContent reports whether the response carries a body
func (r *SoapResponse) HasContent() bool {
	return len(r.content) > 0
}

// ContentType of the transport response
func (r *SoapResponse) ContentType() string {
	return r.contentType
}

// SoapHeaders carried by the response envelope header block
func (r *SoapResponse) SoapHeaders() map[string]string {
	return r.soapHeaders
}

// TransportHeaders of the transport response
func (r *SoapResponse) TransportHeaders() map[string]string {
	return r.transportHeaders
}

// Attachments extracted from the response keyed by declared part name
func (r *SoapResponse) Attachments() map[string]Attachment {
	return r.attachments
}

func copyHeaderMap(values map[string]string) map[string]string {
	copied := make(map[string]string, len(values))
	for name, value := range values {
		copied[name] = value
	}
	return copied
}

func copyAttachmentMap(values map[string]Attachment) map[string]Attachment {
	copied := make(map[string]Attachment, len(values))
	for name, value := range values {
		copied[name] = value
	}
	return copied
}
