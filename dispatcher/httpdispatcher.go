package dispatcher

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/kevinyjn/gowsc/definations"
	"github.com/kevinyjn/gowsc/logger"
	"github.com/kevinyjn/gowsc/soaperrors"
)

// DefaultTimeoutSeconds of one dispatch round trip
const DefaultTimeoutSeconds = 30

type httpDispatcherOption struct {
	headers        map[string]string
	tlsOptions     *definations.TLSOptions
	proxies        *definations.Proxies
	timeoutSeconds int
}

// DispatcherOption http dispatcher options
type DispatcherOption interface {
	apply(*httpDispatcherOption)
}

type funcHTTPDispatcherOption struct {
	f func(*httpDispatcherOption)
}

func (fdo *funcHTTPDispatcherOption) apply(do *httpDispatcherOption) {
	fdo.f(do)
}

func newFuncHTTPDispatcherOption(f func(*httpDispatcherOption)) *funcHTTPDispatcherOption {
	return &funcHTTPDispatcherOption{f: f}
}

func defaultHTTPDispatcherOption() httpDispatcherOption {
	return httpDispatcherOption{
		headers:        map[string]string{},
		timeoutSeconds: DefaultTimeoutSeconds,
	}
}

// WithDispatchHeader option that carries a fixed transport header on every
// dispatched message
func WithDispatchHeader(name string, value string) DispatcherOption {
	return newFuncHTTPDispatcherOption(func(o *httpDispatcherOption) {
		o.headers[name] = value
	})
}

// WithDispatchHeaders option
func WithDispatchHeaders(headers map[string]string) DispatcherOption {
	return newFuncHTTPDispatcherOption(func(o *httpDispatcherOption) {
		for name, value := range headers {
			o.headers[name] = value
		}
	})
}

// WithTLSOptions option
func WithTLSOptions(tlsOptions *definations.TLSOptions) DispatcherOption {
	return newFuncHTTPDispatcherOption(func(o *httpDispatcherOption) {
		o.tlsOptions = tlsOptions
	})
}

// WithProxies option
func WithProxies(proxies *definations.Proxies) DispatcherOption {
	return newFuncHTTPDispatcherOption(func(o *httpDispatcherOption) {
		o.proxies = proxies
	})
}

// WithTimeoutSeconds option
func WithTimeoutSeconds(seconds int) DispatcherOption {
	return newFuncHTTPDispatcherOption(func(o *httpDispatcherOption) {
		if 0 < seconds {
			o.timeoutSeconds = seconds
		}
	})
}

// HTTPDispatcher carries soap messages as http post requests
type HTTPDispatcher struct {
	client  *http.Client
	headers map[string]string
}

// NewHTTPDispatcher builds an http dispatcher
func NewHTTPDispatcher(options ...DispatcherOption) (*HTTPDispatcher, error) {
	opts := defaultHTTPDispatcherOption()
	for _, opt := range options {
		opt.apply(&opts)
	}
	tlsConfig, err := opts.tlsOptions.BuildTLSConfig()
	if nil != err {
		return nil, err
	}
	transport := &http.Transport{TLSClientConfig: tlsConfig}
	if nil != opts.proxies && opts.proxies.Valid() {
		proxies := opts.proxies
		transport.Proxy = func(req *http.Request) (*url.URL, error) {
			proxyURL := proxies.FetchProxyURL(req.URL.String())
			if "" == proxyURL {
				return nil, nil
			}
			return url.Parse(proxyURL)
		}
	}
	return &HTTPDispatcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   time.Second * time.Duration(opts.timeoutSeconds),
		},
		headers: opts.headers,
	}, nil
}

// Dispatch posts the message and reads the raw result back. Transport
// failures surface as dispatching errors, error statuses do not.
func (d *HTTPDispatcher) Dispatch(request *DispatchingRequest) (*DispatchingResponse, error) {
	req, err := http.NewRequest("POST", request.Address, bytes.NewReader(request.Content))
	if nil != err {
		return nil, soaperrors.NewDispatchingError(fmt.Sprintf("formatting query %s failed", request.Address), err)
	}
	req.Header.Set("Content-Type", request.ContentType)
	for name, value := range d.headers {
		req.Header.Set(name, value)
	}
	for name, value := range request.Headers {
		req.Header.Set(name, value)
	}
	res, err := d.client.Do(req)
	if nil != err {
		logger.Error.Printf("query %s failed with error:%v", request.Address, err)
		return nil, soaperrors.NewDispatchingError(fmt.Sprintf("could not dispatch the soap message to %s", request.Address), err)
	}
	defer res.Body.Close()
	content, err := ioutil.ReadAll(res.Body)
	if nil != err {
		logger.Error.Printf("read result by queried url:%s failed with error:%v", request.Address, err)
		return nil, soaperrors.NewDispatchingError(fmt.Sprintf("could not read the result of %s", request.Address), err)
	}
	headers := make(map[string]string, len(res.Header))
	for name := range res.Header {
		headers[name] = res.Header.Get(name)
	}
	return &DispatchingResponse{
		Content:     content,
		ContentType: res.Header.Get("Content-Type"),
		Headers:     headers,
		StatusCode:  res.StatusCode,
	}, nil
}
