package definations

import (
	"crypto/tls"
	"crypto/x509"
	"io/ioutil"
	"strings"

	"github.com/kevinyjn/gowsc/logger"
)

// TLSOptions options about TLS
type TLSOptions struct {
	Enabled      bool   `yaml:"enabled"`
	CertFile     string `yaml:"certFile"`
	KeyFile      string `yaml:"keyFile"`
	CaFile       string `yaml:"caFile"`
	SkipVerify   bool   `yaml:"skipVerify"`
	VerifyClient bool   `yaml:"verifyClient"`
}

// BuildTLSConfig assembles the tls configuration of the options, a disabled
// or nil receiver yields a permissive default
func (n *TLSOptions) BuildTLSConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{InsecureSkipVerify: true}
	if nil == n || false == n.Enabled {
		return tlsConfig, nil
	}
	certs, err := tls.LoadX509KeyPair(n.CertFile, n.KeyFile)
	if err != nil {
		logger.Error.Printf("Load tls certificates with cert:%s key:%s failed with error:%v", n.CertFile, n.KeyFile, err)
		return nil, err
	}
	if n.CaFile != "" {
		caData, err := ioutil.ReadFile(n.CaFile)
		if err != nil {
			logger.Error.Printf("Load tls root CA:%s failed with error:%v", n.CaFile, err)
			return nil, err
		}
		caPool := x509.NewCertPool()
		caPool.AppendCertsFromPEM(caData)
		tlsConfig.RootCAs = caPool
	}
	tlsConfig.Certificates = []tls.Certificate{certs}
	tlsConfig.InsecureSkipVerify = n.SkipVerify
	return tlsConfig, nil
}

// Proxies options about http proxy
type Proxies struct {
	HTTP  string `yaml:"http"`
	HTTPS string `yaml:"https"`
}

// Valid check if proxies configuration is valid
func (n *Proxies) Valid() bool {
	return n.HTTP != "" || n.HTTPS != ""
}

// GetProxyURL fetch proxy url by any configured http or https
func (n *Proxies) GetProxyURL() string {
	if "" == n.HTTP {
		return n.HTTPS
	}
	return n.HTTP
}

// FetchProxyURL fetch proxy url matching the endpoint scheme
func (n *Proxies) FetchProxyURL(endpointURL string) string {
	if strings.HasPrefix(endpointURL, "https") {
		return n.HTTPS
	}
	return n.HTTP
}
