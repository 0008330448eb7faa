package dispatcher

import (
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kevinyjn/gowsc/definations"
	"github.com/kevinyjn/gowsc/soaperrors"
	"github.com/kevinyjn/gowsc/testingutil"
)

func TestDispatch(t *testing.T) {
	var receivedBody []byte
	var receivedContentType string
	var receivedAction string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedBody, _ = ioutil.ReadAll(r.Body)
		receivedContentType = r.Header.Get("Content-Type")
		receivedAction = r.Header.Get("SOAPAction")
		w.Header().Set("Content-Type", "text/xml; charset=UTF-8")
		w.Header().Set("X-Backend", "unit")
		w.Write([]byte(`<response/>`))
	}))
	defer server.Close()

	d, err := NewHTTPDispatcher(WithDispatchHeader("User-Agent", "gowsc"))
	testingutil.AssertNil(t, err, "NewHTTPDispatcher error")
	response, err := d.Dispatch(&DispatchingRequest{
		Address:     server.URL,
		Content:     []byte(`<request/>`),
		ContentType: "text/xml; charset=UTF-8",
		Headers:     map[string]string{"SOAPAction": `"urn:echo"`},
	})
	testingutil.AssertNil(t, err, "Dispatch error")
	testingutil.AssertEquals(t, `<request/>`, string(receivedBody), "posted body")
	testingutil.AssertEquals(t, "text/xml; charset=UTF-8", receivedContentType, "posted content type")
	testingutil.AssertEquals(t, `"urn:echo"`, receivedAction, "posted soap action")
	testingutil.AssertEquals(t, http.StatusOK, response.StatusCode, "response status")
	testingutil.AssertEquals(t, `<response/>`, string(response.Content), "response content")
	testingutil.AssertEquals(t, "text/xml; charset=UTF-8", response.ContentType, "response content type")
	testingutil.AssertEquals(t, "unit", response.Headers["X-Backend"], "response header passthrough")
}

func TestDispatchKeepsErrorStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<fault/>`))
	}))
	defer server.Close()

	d, err := NewHTTPDispatcher()
	testingutil.AssertNil(t, err, "NewHTTPDispatcher error")
	response, err := d.Dispatch(&DispatchingRequest{Address: server.URL, Content: []byte(`<request/>`), ContentType: "text/xml"})
	testingutil.AssertNil(t, err, "Dispatch error on error status")
	testingutil.AssertEquals(t, http.StatusInternalServerError, response.StatusCode, "response status")
	testingutil.AssertEquals(t, `<fault/>`, string(response.Content), "fault body passthrough")
}

func TestDispatchConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	address := server.URL
	server.Close()

	d, err := NewHTTPDispatcher(WithTimeoutSeconds(2))
	testingutil.AssertNil(t, err, "NewHTTPDispatcher error")
	_, err = d.Dispatch(&DispatchingRequest{Address: address, Content: []byte(`<request/>`), ContentType: "text/xml"})
	testingutil.AssertNotNil(t, err, "Dispatch(closed endpoint) error")
	dispatchingErr := &soaperrors.DispatchingError{}
	testingutil.AssertTrue(t, errors.As(err, &dispatchingErr), "connection failure surfaces as a dispatching error")
}

func TestNewHTTPDispatcherWithBrokenTLS(t *testing.T) {
	_, err := NewHTTPDispatcher(WithTLSOptions(&definations.TLSOptions{
		Enabled:  true,
		CertFile: "/path/not/exists/client.crt",
		KeyFile:  "/path/not/exists/client.key",
	}))
	testingutil.AssertNotNil(t, err, "NewHTTPDispatcher(broken tls) error")
}
