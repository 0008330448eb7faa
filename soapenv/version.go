package soapenv

import (
	"fmt"
	"strings"
)

// SoapVersion type
type SoapVersion int

// Supported soap protocol versions
const (
	SOAP11 SoapVersion = iota
	SOAP12
)

// Envelope namespaces
const (
	Soap11Namespace = "http://schemas.xmlsoap.org/soap/envelope/"
	Soap12Namespace = "http://www.w3.org/2003/05/soap-envelope"
)

// Content types
const (
	Soap11ContentType = "text/xml"
	Soap12ContentType = "application/soap+xml"
)

// ParseVersion resolves a configured soap version value
func ParseVersion(value string) (SoapVersion, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "", "1.1", "SOAP11", "SOAP 1.1":
		return SOAP11, nil
	case "1.2", "SOAP12", "SOAP 1.2":
		return SOAP12, nil
	}
	return SOAP11, fmt.Errorf("unknown soap version:%s", value)
}

// EnvelopeNamespace getter
func (v SoapVersion) EnvelopeNamespace() string {
	if SOAP12 == v {
		return Soap12Namespace
	}
	return Soap11Namespace
}

// ContentType returns the wire content type of the version
func (v SoapVersion) ContentType() string {
	if SOAP12 == v {
		return Soap12ContentType
	}
	return Soap11ContentType
}

func (v SoapVersion) String() string {
	if SOAP12 == v {
		return "SOAP12"
	}
	return "SOAP11"
}
