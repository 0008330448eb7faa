package security

import (
	"github.com/beevik/etree"
	"github.com/kevinyjn/gowsc/soapenv"
)

// OASIS web service security namespaces and identifiers
const (
	WssNsWSSE               = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"
	WssNsWSU                = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-utility-1.0.xsd"
	WssTypePasswordText     = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-username-token-profile-1.0#PasswordText"
	WssTypePasswordDigest   = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-username-token-profile-1.0#PasswordDigest"
	WssEncodingBase64Binary = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-soap-message-security-1.0#Base64Binary"
)

const wsuTimeFormat = "2006-01-02T15:04:05.000Z"

// SecurityStrategy rewrites the envelope security header following one web
// service security profile. Strategies apply between request generation and
// dispatch, each strategy at most once per envelope.
type SecurityStrategy interface {
	Apply(envelope *soapenv.Envelope) error
}

// securityElement finds the wsse security header block, creating it on
// first use
func securityElement(envelope *soapenv.Envelope) *etree.Element {
	header := envelope.HeaderElement()
	for _, child := range header.ChildElements() {
		if "Security" == child.Tag {
			return child
		}
	}
	element := header.CreateElement("wsse:Security")
	element.CreateAttr("xmlns:wsse", WssNsWSSE)
	element.CreateAttr("xmlns:wsu", WssNsWSU)
	return element
}
