package security

import (
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"io/ioutil"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/kevinyjn/gowsc/logger"
	"github.com/kevinyjn/gowsc/soapenv"
	"github.com/kevinyjn/gowsc/xmlutils"
	"github.com/ma314smith/signedxml"
	"golang.org/x/crypto/pkcs12"
)

// XML digital signature namespace and algorithm identifiers
const (
	DsigNamespace    = "http://www.w3.org/2000/09/xmldsig#"
	algorithmExcC14N = "http://www.w3.org/2001/10/xml-exc-c14n#"
	algorithmRsaSha1 = "http://www.w3.org/2000/09/xmldsig#rsa-sha1"
	algorithmSha1    = "http://www.w3.org/2000/09/xmldsig#sha1"
)

// SignSecurity signs the envelope body with an enveloped X509 signature.
// Validate replays the signature verification on the produced document
// before dispatching it.
type SignSecurity struct {
	Certificate tls.Certificate
	Validate    bool
}

// NewSignSecurityFromKeystore loads the signing certificate and key from a
// pkcs12 keystore file
func NewSignSecurityFromKeystore(keystoreFile string, password string) (*SignSecurity, error) {
	data, err := ioutil.ReadFile(keystoreFile)
	if nil != err {
		logger.Error.Printf("Load keystore:%s failed with error:%v", keystoreFile, err)
		return nil, err
	}
	privateKey, certificate, err := pkcs12.Decode(data, password)
	if nil != err {
		logger.Error.Printf("Parse keystore:%s failed with error:%v", keystoreFile, err)
		return nil, err
	}
	return &SignSecurity{Certificate: tls.Certificate{
		Certificate: [][]byte{certificate.Raw},
		PrivateKey:  privateKey,
		Leaf:        certificate,
	}}, nil
}

// Apply marks the body with a wsu id, appends the signature template
// referencing it and computes the digest and signature values over the
// serialized envelope
func (s *SignSecurity) Apply(envelope *soapenv.Envelope) error {
	if 0 == len(s.Certificate.Certificate) {
		return errors.New("the signing certificate is not configured")
	}
	privateKey, ok := s.Certificate.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return errors.New("the signing key is not an rsa private key")
	}
	certificate, err := s.leafCertificate()
	if nil != err {
		return err
	}

	body := envelope.BodyElement()
	bodyID := body.SelectAttrValue("wsu:Id", "")
	if "" == bodyID {
		bodyID = "Body-" + uuid.NewString()
		body.CreateAttr("xmlns:wsu", WssNsWSU)
		body.CreateAttr("wsu:Id", bodyID)
	}
	appendSignatureTemplate(securityElement(envelope), bodyID, certificate)

	content, err := envelope.Document().WriteToString()
	if nil != err {
		return err
	}
	signer, err := signedxml.NewSigner(content)
	if nil != err {
		return err
	}
	signed, err := signer.Sign(privateKey)
	if nil != err {
		logger.Error.Printf("Sign soap envelope failed with error:%v", err)
		return err
	}
	if s.Validate {
		if err = ValidateSignedDocument(signed); nil != err {
			logger.Error.Printf("Validate signed soap envelope failed with error:%v", err)
			return err
		}
	}
	doc, err := xmlutils.StringToDocument(signed)
	if nil != err {
		return err
	}
	return envelope.SetDocument(doc)
}

func (s *SignSecurity) leafCertificate() (*x509.Certificate, error) {
	if nil != s.Certificate.Leaf {
		return s.Certificate.Leaf, nil
	}
	return x509.ParseCertificate(s.Certificate.Certificate[0])
}

// appendSignatureTemplate writes the enveloped signature skeleton, the
// digest and signature values stay empty until the signer fills them
func appendSignatureTemplate(security *etree.Element, bodyID string, certificate *x509.Certificate) {
	signature := security.CreateElement("Signature")
	signature.CreateAttr("xmlns", DsigNamespace)
	signature.CreateAttr("Id", "SIG-"+uuid.NewString())

	signedInfo := signature.CreateElement("SignedInfo")
	signedInfo.CreateElement("CanonicalizationMethod").CreateAttr("Algorithm", algorithmExcC14N)
	signedInfo.CreateElement("SignatureMethod").CreateAttr("Algorithm", algorithmRsaSha1)
	reference := signedInfo.CreateElement("Reference")
	reference.CreateAttr("URI", "#"+bodyID)
	transforms := reference.CreateElement("Transforms")
	transforms.CreateElement("Transform").CreateAttr("Algorithm", algorithmExcC14N)
	reference.CreateElement("DigestMethod").CreateAttr("Algorithm", algorithmSha1)
	reference.CreateElement("DigestValue")

	signature.CreateElement("SignatureValue")
	keyInfo := signature.CreateElement("KeyInfo")
	keyInfo.CreateAttr("Id", "KI-"+uuid.NewString())
	tokenReference := keyInfo.CreateElement("wsse:SecurityTokenReference")
	x509Data := tokenReference.CreateElement("X509Data")
	issuerSerial := x509Data.CreateElement("X509IssuerSerial")
	issuerSerial.CreateElement("X509IssuerName").SetText(certificate.Issuer.String())
	issuerSerial.CreateElement("X509SerialNumber").SetText(certificate.SerialNumber.String())
	x509Data.CreateElement("X509Certificate").SetText(base64.StdEncoding.EncodeToString(certificate.Raw))
}

// ValidateSignedDocument checks the signature references of a signed
// document against its embedded certificate
func ValidateSignedDocument(content string) error {
	validator, err := signedxml.NewValidator(content)
	if nil != err {
		return err
	}
	_, err = validator.ValidateReferences()
	return err
}
