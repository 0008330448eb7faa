package introspection

import (
	"sort"
)

// Part describes one message part of an operation as declared by the
// service interface: a body element, a soap header or an attachment.
type Part struct {
	// Name is the part name declared by the interface description.
	Name string
	// Element is the wire element name when it differs from the part name.
	Element string
	// ContentType declares the expected media type of an attachment part.
	ContentType string
}

// WireName resolves the element name used on the wire
func (p Part) WireName() string {
	if "" != p.Element {
		return p.Element
	}
	return p.Name
}

// OperationModel describes the input and output shapes of one exposed
// operation. Instances are immutable once built and are shared by
// reference between all resolvers and generators.
type OperationModel struct {
	name              string
	soapAction        string
	oneWay            bool
	inputBodyPart     *Part
	outputBodyPart    *Part
	inputHeaders      []Part
	outputHeaders     []Part
	inputAttachments  []Part
	outputAttachments []Part
}

// OperationOption operation model construction option
type OperationOption func(*OperationModel)

// WithSoapAction declares the soap action value of the operation
func WithSoapAction(action string) OperationOption {
	return func(op *OperationModel) {
		op.soapAction = action
	}
}

// WithOneWay marks the operation as one-way, without a response message
func WithOneWay() OperationOption {
	return func(op *OperationModel) {
		op.oneWay = true
		op.outputBodyPart = nil
	}
}

// WithInputBody declares the input body part
func WithInputBody(part Part) OperationOption {
	return func(op *OperationModel) {
		p := part
		op.inputBodyPart = &p
	}
}

// WithOutputBody declares the output body part
func WithOutputBody(part Part) OperationOption {
	return func(op *OperationModel) {
		if op.oneWay {
			return
		}
		p := part
		op.outputBodyPart = &p
	}
}

// WithInputHeaders declares the ordered input soap header parts
func WithInputHeaders(parts ...Part) OperationOption {
	return func(op *OperationModel) {
		op.inputHeaders = append(op.inputHeaders, parts...)
	}
}

// WithOutputHeaders declares the ordered output soap header parts
func WithOutputHeaders(parts ...Part) OperationOption {
	return func(op *OperationModel) {
		op.outputHeaders = append(op.outputHeaders, parts...)
	}
}

// WithInputAttachments declares the input attachment parts
func WithInputAttachments(parts ...Part) OperationOption {
	return func(op *OperationModel) {
		op.inputAttachments = append(op.inputAttachments, parts...)
	}
}

// WithOutputAttachments declares the output attachment parts
func WithOutputAttachments(parts ...Part) OperationOption {
	return func(op *OperationModel) {
		op.outputAttachments = append(op.outputAttachments, parts...)
	}
}

// NewOperation builds an operation model
func NewOperation(name string, options ...OperationOption) *OperationModel {
	op := &OperationModel{name: name}
	for _, option := range options {
		option(op)
	}
	return op
}

// Name of the operation
func (op *OperationModel) Name() string {
	return op.name
}

// SoapAction declared for the operation, empty when the binding does not
// declare one
func (op *OperationModel) SoapAction() string {
	return op.soapAction
}

// IsOneWay reports whether the operation has no response message
func (op *OperationModel) IsOneWay() bool {
	return op.oneWay
}

// InputBodyPart returns the input body part, nil when the operation
// declares none
func (op *OperationModel) InputBodyPart() *Part {
	return clonePart(op.inputBodyPart)
}

// OutputBodyPart returns the output body part, nil for one-way operations
// and operations declaring none
func (op *OperationModel) OutputBodyPart() *Part {
	return clonePart(op.outputBodyPart)
}

// InputHeaders returns the ordered input soap header parts
func (op *OperationModel) InputHeaders() []Part {
	return cloneParts(op.inputHeaders)
}

// OutputHeaders returns the ordered output soap header parts
func (op *OperationModel) OutputHeaders() []Part {
	return cloneParts(op.outputHeaders)
}

// InputAttachments returns the declared input attachment parts
func (op *OperationModel) InputAttachments() []Part {
	return cloneParts(op.inputAttachments)
}

// OutputAttachments returns the declared output attachment parts
func (op *OperationModel) OutputAttachments() []Part {
	return cloneParts(op.outputAttachments)
}

func clonePart(part *Part) *Part {
	if nil == part {
		return nil
	}
	p := *part
	return &p
}

func cloneParts(parts []Part) []Part {
	if len(parts) == 0 {
		return nil
	}
	cloned := make([]Part, len(parts))
	copy(cloned, parts)
	return cloned
}

// Definition indexes the operations exposed by one service port. It is the
// contract this library consumes from whatever component introspects the
// interface description; building one from a live WSDL belongs to that
// collaborator, not to this package.
type Definition struct {
	service    string
	port       string
	operations map[string]*OperationModel
}

// NewDefinition builds a service definition from operation models
func NewDefinition(service string, port string, operations ...*OperationModel) *Definition {
	index := make(map[string]*OperationModel, len(operations))
	for _, op := range operations {
		if nil != op {
			index[op.Name()] = op
		}
	}
	return &Definition{service: service, port: port, operations: index}
}

// Service name
func (d *Definition) Service() string {
	return d.service
}

// Port name
func (d *Definition) Port() string {
	return d.port
}

// Operation looks an operation model up by name
func (d *Definition) Operation(name string) (*OperationModel, bool) {
	op, ok := d.operations[name]
	return op, ok
}

// OperationNames lists the known operation names sorted alphabetically
func (d *Definition) OperationNames() []string {
	names := make([]string, 0, len(d.operations))
	for name := range d.operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
