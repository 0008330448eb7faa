package security

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kevinyjn/gowsc/soapenv"
)

// UsernameTokenSecurity writes a wsse username token following the oasis
// username token profile, as plain text or as a digest over a fresh nonce
type UsernameTokenSecurity struct {
	Username   string
	Password   string
	Digest     bool
	AddNonce   bool
	AddCreated bool
}

// Apply appends the username token to the security header. The digest mode
// always carries the nonce and creation instant it was computed from.
func (s *UsernameTokenSecurity) Apply(envelope *soapenv.Envelope) error {
	if "" == s.Username {
		return errors.New("the username token security requires a username")
	}
	security := securityElement(envelope)
	token := security.CreateElement("wsse:UsernameToken")
	token.CreateAttr("wsu:Id", "UsernameToken-"+uuid.NewString())
	token.CreateElement("wsse:Username").SetText(s.Username)

	created := time.Now().UTC().Format(wsuTimeFormat)
	nonce := newNonce()
	password := token.CreateElement("wsse:Password")
	if s.Digest {
		password.CreateAttr("Type", WssTypePasswordDigest)
		password.SetText(PasswordDigest(nonce, created, s.Password))
	} else {
		password.CreateAttr("Type", WssTypePasswordText)
		password.SetText(s.Password)
	}
	if s.Digest || s.AddNonce {
		element := token.CreateElement("wsse:Nonce")
		element.CreateAttr("EncodingType", WssEncodingBase64Binary)
		element.SetText(base64.StdEncoding.EncodeToString(nonce))
	}
	if s.Digest || s.AddCreated {
		token.CreateElement("wsu:Created").SetText(created)
	}
	return nil
}

func newNonce() []byte {
	value := uuid.New()
	return value[:]
}

// PasswordDigest computes Base64(SHA-1(nonce+created+password)) per the
// username token profile
func PasswordDigest(nonce []byte, created string, password string) string {
	hash := sha1.New()
	hash.Write(nonce)
	hash.Write([]byte(created))
	hash.Write([]byte(password))
	return base64.StdEncoding.EncodeToString(hash.Sum(nil))
}
