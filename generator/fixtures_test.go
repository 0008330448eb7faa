package generator

import (
	"fmt"
	"testing"

	"github.com/kevinyjn/gowsc/introspection"
	"github.com/kevinyjn/gowsc/metadata"
	"github.com/kevinyjn/gowsc/soapenv"
	"github.com/kevinyjn/gowsc/testingutil"
)

func newTestDefinition() *introspection.Definition {
	return introspection.NewDefinition("AttachmentService", "AttachmentPort",
		introspection.NewOperation("echo",
			introspection.WithInputBody(introspection.Part{Name: "body", Element: "echo"}),
			introspection.WithOutputBody(introspection.Part{Name: "body", Element: "echoResponse"}),
		),
		introspection.NewOperation("noParams",
			introspection.WithInputBody(introspection.Part{Name: "body", Element: "noParams"}),
			introspection.WithOutputBody(introspection.Part{Name: "body", Element: "noParamsResponse"}),
		),
		introspection.NewOperation("ping"),
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

func newTestLoader() *metadata.StaticTypeLoader {
	return metadata.NewStaticTypeLoader().
		Register("echo", metadata.NewObjectType(metadata.ObjectField{Name: "text", Type: metadata.ScalarType{}})).
		Register("noParams", metadata.NewObjectType()).
		Register("uploadAttachment", metadata.NewObjectType())
}

func parseTestEnvelope(t *testing.T, body string) *soapenv.ParsedEnvelope {
	envelope, err := soapenv.ParseEnvelope([]byte(fmt.Sprintf(
		`<soap:Envelope xmlns:soap="%s"><soap:Body>%s</soap:Body></soap:Envelope>`, soapenv.Soap11Namespace, body)))
	testingutil.AssertNil(t, err, "parse test envelope error")
	return envelope
}
