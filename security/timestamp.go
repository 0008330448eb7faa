package security

import (
	"time"

	"github.com/google/uuid"
	"github.com/kevinyjn/gowsc/soapenv"
)

// DefaultTimestampTTLSeconds bounds the message validity when no time to
// live is configured
const DefaultTimestampTTLSeconds = 60

// TimestampSecurity writes a wsu timestamp bounding the message validity
type TimestampSecurity struct {
	TimeToLiveSeconds int
}

// Apply appends the timestamp to the security header
func (s *TimestampSecurity) Apply(envelope *soapenv.Envelope) error {
	ttl := s.TimeToLiveSeconds
	if ttl <= 0 {
		ttl = DefaultTimestampTTLSeconds
	}
	security := securityElement(envelope)
	timestamp := security.CreateElement("wsu:Timestamp")
	timestamp.CreateAttr("wsu:Id", "TS-"+uuid.NewString())
	now := time.Now().UTC()
	timestamp.CreateElement("wsu:Created").SetText(now.Format(wsuTimeFormat))
	timestamp.CreateElement("wsu:Expires").SetText(now.Add(time.Second * time.Duration(ttl)).Format(wsuTimeFormat))
	return nil
}
