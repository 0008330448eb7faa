package metadata

import (
	"github.com/kevinyjn/gowsc/introspection"
)

// TypeIntrospecterDelegate selects which side of an operation model a
// resolution works on. Exactly two instances exist process-wide, one per
// direction; both are stateless and safe for concurrent use. Absence is
// expressed as a nil part or an empty slice, never as a failure.
type TypeIntrospecterDelegate struct {
	direction       string
	bodyPart        func(op *introspection.OperationModel) *introspection.Part
	headerParts     func(op *introspection.OperationModel) []introspection.Part
	attachmentParts func(op *introspection.OperationModel) []introspection.Part
}

// Direction name, input or output
func (d *TypeIntrospecterDelegate) Direction() string {
	return d.direction
}

// SelectBodyPart returns the direction's body part, nil when absent
func (d *TypeIntrospecterDelegate) SelectBodyPart(op *introspection.OperationModel) *introspection.Part {
	return d.bodyPart(op)
}

// SelectHeaderParts returns the direction's ordered soap header parts
func (d *TypeIntrospecterDelegate) SelectHeaderParts(op *introspection.OperationModel) []introspection.Part {
	return d.headerParts(op)
}

// SelectAttachmentParts returns the direction's attachment parts
func (d *TypeIntrospecterDelegate) SelectAttachmentParts(op *introspection.OperationModel) []introspection.Part {
	return d.attachmentParts(op)
}

// Delegates
var (
	// InputDelegate selects the input side of an operation model
	InputDelegate = &TypeIntrospecterDelegate{
		direction:       "input",
		bodyPart:        (*introspection.OperationModel).InputBodyPart,
		headerParts:     (*introspection.OperationModel).InputHeaders,
		attachmentParts: (*introspection.OperationModel).InputAttachments,
	}
	// OutputDelegate selects the output side of an operation model
	OutputDelegate = &TypeIntrospecterDelegate{
		direction:       "output",
		bodyPart:        (*introspection.OperationModel).OutputBodyPart,
		headerParts:     (*introspection.OperationModel).OutputHeaders,
		attachmentParts: (*introspection.OperationModel).OutputAttachments,
	}
)
