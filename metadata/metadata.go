package metadata

import (
	"fmt"

	"github.com/kevinyjn/gowsc/introspection"
)

// OperationMetadata is the immutable type triple computed for one
// operation and direction
type OperationMetadata struct {
	body        Type
	headers     Type
	attachments Type
}

// BodyType descriptor, the null type when the direction has no body
func (m *OperationMetadata) BodyType() Type {
	return m.body
}

// HeadersType descriptor, the null type when no headers are declared
func (m *OperationMetadata) HeadersType() Type {
	return m.headers
}

// AttachmentsType descriptor, the null type when no attachments are
// declared
func (m *OperationMetadata) AttachmentsType() Type {
	return m.attachments
}

// String lists the metadata fields explicitly
func (m *OperationMetadata) String() string {
	return fmt.Sprintf("OperationMetadata{body:%s, headers:%s, attachments:%s}", m.body, m.headers, m.attachments)
}

// SoapMetadataResolver composes the body, headers and attachments
// resolvers into one metadata facade. It never invokes the service; every
// call computes its result from the definition and schema alone, so
// instances are safe for concurrent use.
type SoapMetadataResolver struct {
	body        *BodyMetadataResolver
	headers     *HeadersMetadataResolver
	attachments *AttachmentsMetadataResolver
	keys        *ServiceOperationsResolver
}

// NewSoapMetadataResolver builds a metadata resolver over one service
// definition
func NewSoapMetadataResolver(definition *introspection.Definition, loader TypeLoader) *SoapMetadataResolver {
	return &SoapMetadataResolver{
		body:        NewBodyMetadataResolver(definition, loader),
		headers:     NewHeadersMetadataResolver(definition, loader),
		attachments: NewAttachmentsMetadataResolver(definition, loader),
		keys:        NewServiceOperationsResolver(definition),
	}
}

// GetInputMetadata resolves the input metadata triple of an operation
func (r *SoapMetadataResolver) GetInputMetadata(operation string) (*OperationMetadata, error) {
	return r.resolve(operation, InputDelegate)
}

// GetOutputMetadata resolves the output metadata triple of an operation
func (r *SoapMetadataResolver) GetOutputMetadata(operation string) (*OperationMetadata, error) {
	return r.resolve(operation, OutputDelegate)
}

// GetAvailableOperations lists the operation names exposed by the service
func (r *SoapMetadataResolver) GetAvailableOperations() []string {
	return r.keys.AvailableOperations()
}

func (r *SoapMetadataResolver) resolve(operation string, delegate *TypeIntrospecterDelegate) (*OperationMetadata, error) {
	body, err := r.body.Resolve(operation, delegate)
	if nil != err {
		return nil, err
	}
	headers, err := r.headers.Resolve(operation, delegate)
	if nil != err {
		return nil, err
	}
	attachments, err := r.attachments.Resolve(operation, delegate)
	if nil != err {
		return nil, err
	}
	return &OperationMetadata{body: body, headers: headers, attachments: attachments}, nil
}
