package soapenv

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/kevinyjn/gowsc/logger"
	"github.com/kevinyjn/gowsc/xmlutils"
)

// Fault carries the protocol fault content of a response envelope. Subcode,
// Node and Role only exist under soap 1.2, the code values are normalized to
// their QName local parts.
type Fault struct {
	Code    string
	Subcode string
	Reason  string
	Detail  string
	Node    string
	Role    string
}

// Fault parses the body fault block, nil when the response is not a fault
func (e *ParsedEnvelope) Fault() *Fault {
	content := e.BodyContent()
	if nil == content || "Fault" != content.Tag {
		return nil
	}
	if SOAP12 == e.version {
		return parseFault12(content)
	}
	return parseFault11(content)
}

func parseFault11(element *etree.Element) *Fault {
	fault := &Fault{}
	if code := element.SelectElement("faultcode"); nil != code {
		fault.Code = qnameLocalPart(code.Text())
	}
	if reason := element.SelectElement("faultstring"); nil != reason {
		fault.Reason = strings.TrimSpace(reason.Text())
	}
	fault.Detail = faultDetail(element.SelectElement("detail"))
	return fault
}

func parseFault12(element *etree.Element) *Fault {
	fault := &Fault{}
	if code := element.SelectElement("Code"); nil != code {
		if value := code.SelectElement("Value"); nil != value {
			fault.Code = qnameLocalPart(value.Text())
		}
		if subcode := code.SelectElement("Subcode"); nil != subcode {
			if value := subcode.SelectElement("Value"); nil != value {
				fault.Subcode = qnameLocalPart(value.Text())
			}
		}
	}
	if reason := element.SelectElement("Reason"); nil != reason {
		if text := reason.SelectElement("Text"); nil != text {
			fault.Reason = strings.TrimSpace(text.Text())
		}
	}
	if node := element.SelectElement("Node"); nil != node {
		fault.Node = strings.TrimSpace(node.Text())
	}
	if role := element.SelectElement("Role"); nil != role {
		fault.Role = strings.TrimSpace(role.Text())
	}
	fault.Detail = faultDetail(element.SelectElement("Detail"))
	return fault
}

// faultDetail serializes the fault detail subtree. A detail that cannot be
// serialized degrades to an empty value, it never escalates.
func faultDetail(element *etree.Element) string {
	if nil == element {
		return ""
	}
	value, err := xmlutils.NodeToString(element)
	if nil != err {
		logger.Debug.Printf("serializing the soap fault detail failed with error:%v", err)
		return ""
	}
	return value
}

func qnameLocalPart(value string) string {
	value = strings.TrimSpace(value)
	idx := strings.LastIndex(value, ":")
	if idx < 0 {
		return value
	}
	return value[idx+1:]
}
