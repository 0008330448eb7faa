package metadata

import (
	"fmt"

	"github.com/kevinyjn/gowsc/introspection"
	"github.com/kevinyjn/gowsc/soaperrors"
)

var nullType = NullType{}

// nodeResolverBase carries what every metadata resolver needs: the service
// definition and the schema type loader.
type nodeResolverBase struct {
	definition *introspection.Definition
	loader     TypeLoader
}

func (r *nodeResolverBase) operation(name string) (*introspection.OperationModel, error) {
	op, ok := r.definition.Operation(name)
	if !ok {
		return nil, &soaperrors.UnknownOperationError{Operation: name}
	}
	return op, nil
}

func (r *nodeResolverBase) loadPartType(operation string, part introspection.Part) (Type, error) {
	t, ok := r.loader.Load(part.WireName())
	if !ok {
		return nil, fmt.Errorf("could not load type of part [%s] for the [%s] operation", part.WireName(), operation)
	}
	return t, nil
}

// BodyMetadataResolver resolves the body shape of an operation for one
// direction
type BodyMetadataResolver struct {
	nodeResolverBase
}

// NewBodyMetadataResolver builds a body resolver
func NewBodyMetadataResolver(definition *introspection.Definition, loader TypeLoader) *BodyMetadataResolver {
	return &BodyMetadataResolver{nodeResolverBase{definition: definition, loader: loader}}
}

// Resolve computes the body type descriptor of the operation for the
// delegate's direction. A missing body part yields the null type.
func (r *BodyMetadataResolver) Resolve(operation string, delegate *TypeIntrospecterDelegate) (Type, error) {
	op, err := r.operation(operation)
	if nil != err {
		return nil, err
	}
	part := delegate.SelectBodyPart(op)
	if nil == part {
		return nullType, nil
	}
	fieldType, err := r.loadPartType(operation, *part)
	if nil != err {
		return nil, err
	}
	return NewObjectType(ObjectField{Name: part.WireName(), Type: fieldType}), nil
}

// HeadersMetadataResolver resolves the soap header shape of an operation
// for one direction
type HeadersMetadataResolver struct {
	nodeResolverBase
}

// NewHeadersMetadataResolver builds a headers resolver
func NewHeadersMetadataResolver(definition *introspection.Definition, loader TypeLoader) *HeadersMetadataResolver {
	return &HeadersMetadataResolver{nodeResolverBase{definition: definition, loader: loader}}
}

// Resolve computes the headers type descriptor of the operation for the
// delegate's direction. Operations without declared headers yield the null
// type.
func (r *HeadersMetadataResolver) Resolve(operation string, delegate *TypeIntrospecterDelegate) (Type, error) {
	op, err := r.operation(operation)
	if nil != err {
		return nil, err
	}
	parts := delegate.SelectHeaderParts(op)
	if len(parts) == 0 {
		return nullType, nil
	}
	fields := make([]ObjectField, 0, len(parts))
	for _, part := range parts {
		fieldType, err := r.loadPartType(operation, part)
		if nil != err {
			return nil, err
		}
		fields = append(fields, ObjectField{Name: part.WireName(), Type: fieldType})
	}
	return NewObjectType(fields...), nil
}

// AttachmentsMetadataResolver resolves the attachment shape of an
// operation for one direction
type AttachmentsMetadataResolver struct {
	nodeResolverBase
}

// NewAttachmentsMetadataResolver builds an attachments resolver
func NewAttachmentsMetadataResolver(definition *introspection.Definition, loader TypeLoader) *AttachmentsMetadataResolver {
	return &AttachmentsMetadataResolver{nodeResolverBase{definition: definition, loader: loader}}
}

// Resolve computes the attachments type descriptor of the operation for
// the delegate's direction. Every attachment field is typed binary; an
// operation without declared attachments yields the null type.
func (r *AttachmentsMetadataResolver) Resolve(operation string, delegate *TypeIntrospecterDelegate) (Type, error) {
	op, err := r.operation(operation)
	if nil != err {
		return nil, err
	}
	parts := delegate.SelectAttachmentParts(op)
	if len(parts) == 0 {
		return nullType, nil
	}
	fields := make([]ObjectField, 0, len(parts))
	for _, part := range parts {
		fields = append(fields, ObjectField{Name: part.Name, Type: BinaryType{}})
	}
	return NewObjectType(fields...), nil
}

// ServiceOperationsResolver exposes the set of operation names known to
// the service definition
type ServiceOperationsResolver struct {
	definition *introspection.Definition
}

// NewServiceOperationsResolver builds an operations resolver
func NewServiceOperationsResolver(definition *introspection.Definition) *ServiceOperationsResolver {
	return &ServiceOperationsResolver{definition: definition}
}

// AvailableOperations lists the known operation names sorted
// alphabetically. An empty definition yields an empty list.
func (r *ServiceOperationsResolver) AvailableOperations() []string {
	return r.definition.OperationNames()
}
