package soapclient

import (
	"fmt"

	"github.com/kevinyjn/gowsc/config"
	"github.com/kevinyjn/gowsc/dispatcher"
	"github.com/kevinyjn/gowsc/introspection"
	"github.com/kevinyjn/gowsc/security"
	"github.com/kevinyjn/gowsc/soapenv"
)

// NewSoapClientFromConfig builds a soap client from a configured web service
// block. Options passed by the caller are applied after the configured ones so
// that they would take precedence.
func NewSoapClientFromConfig(cfg *config.WebServiceConfig, definition *introspection.Definition, options ...ClientOption) (*SoapClient, error) {
	if nil == cfg {
		return nil, fmt.Errorf("could not initialize soap client without a web service configuration")
	}
	configured := []ClientOption{WithMtom(cfg.Mtom)}
	if "" != cfg.SoapVersion {
		version, err := soapenv.ParseVersion(cfg.SoapVersion)
		if nil != err {
			return nil, err
		}
		configured = append(configured, WithVersion(version))
	}
	if "" != cfg.Encoding {
		configured = append(configured, WithEncoding(cfg.Encoding))
	}

	dispatcherOptions := []dispatcher.DispatcherOption{}
	if cfg.TimeoutSeconds > 0 {
		dispatcherOptions = append(dispatcherOptions, dispatcher.WithTimeoutSeconds(cfg.TimeoutSeconds))
	}
	if cfg.TLS.Enabled {
		dispatcherOptions = append(dispatcherOptions, dispatcher.WithTLSOptions(&cfg.TLS))
	}
	if nil != cfg.Proxies && cfg.Proxies.Valid() {
		dispatcherOptions = append(dispatcherOptions, dispatcher.WithProxies(cfg.Proxies))
	}
	d, err := dispatcher.NewHTTPDispatcher(dispatcherOptions...)
	if nil != err {
		return nil, err
	}
	configured = append(configured, WithDispatcher(d))

	if len(cfg.TransportHeaders) > 0 {
		configured = append(configured, WithTransportHeaders(cfg.TransportHeaders))
	}
	securities, err := securitiesFromConfig(&cfg.Security)
	if nil != err {
		return nil, err
	}
	if len(securities) > 0 {
		configured = append(configured, WithSecurities(securities...))
	}

	configured = append(configured, options...)
	return NewSoapClient(cfg.Address, definition, configured...)
}

// securitiesFromConfig keeps a fixed application order so that a signature
// would cover the timestamp and token elements already present in the header.
func securitiesFromConfig(cfg *config.SecurityConfig) ([]security.SecurityStrategy, error) {
	securities := []security.SecurityStrategy{}
	if nil != cfg.Timestamp {
		securities = append(securities, &security.TimestampSecurity{
			TimeToLiveSeconds: cfg.Timestamp.TimeToLiveSeconds,
		})
	}
	if nil != cfg.UsernameToken {
		securities = append(securities, &security.UsernameTokenSecurity{
			Username:   cfg.UsernameToken.Username,
			Password:   cfg.UsernameToken.Password,
			Digest:     cfg.UsernameToken.Digest,
			AddNonce:   cfg.UsernameToken.AddNonce,
			AddCreated: cfg.UsernameToken.AddCreated,
		})
	}
	if nil != cfg.Sign {
		sign, err := security.NewSignSecurityFromKeystore(cfg.Sign.KeystoreFile, cfg.Sign.KeystorePassword)
		if nil != err {
			return nil, err
		}
		sign.Validate = cfg.Sign.Validate
		securities = append(securities, sign)
	}
	return securities, nil
}
