// Package awstest serves canned AWS JSON protocol responses to real SDK clients,
// so tests exercise request serialization and response parsing without a network.
package awstest

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// HandlerFunc answers one call, identified by its X-Amz-Target header
// (for example `AmazonSSM.GetParameter`).
type HandlerFunc func(target string, body []byte) (statusCode int, response string)

type Call struct {
	Target string
	Header http.Header
	Body   []byte
}

type RoundTripper struct {
	handler HandlerFunc

	mu    sync.Mutex
	calls []Call
}

// Responses answers every known target with 200 and its body, anything else with 400.
func Responses(responses map[string]string) HandlerFunc {
	return func(target string, _ []byte) (int, string) {
		resp, ok := responses[target]
		if !ok {
			return http.StatusBadRequest, `{"__type":"UnknownOperationException","message":"unknown target ` + target + `"}`
		}
		return http.StatusOK, resp
	}
}

// NewConfig returns an aws.Config whose clients send every request to handler.
func NewConfig(handler HandlerFunc) (aws.Config, *RoundTripper) {
	transport := &RoundTripper{handler: handler}
	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		HTTPClient:  &http.Client{Transport: transport},
	}
	cfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc( //nolint:staticcheck // Honored by every client version we pin.
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: "https://aws.test", SigningRegion: region, HostnameImmutable: true}, nil
		},
	)
	return cfg, transport
}

func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		if body, err = io.ReadAll(req.Body); err != nil {
			return nil, err
		}
		req.Body.Close()
	}

	target := req.Header.Get("X-Amz-Target")

	rt.mu.Lock()
	rt.calls = append(rt.calls, Call{Target: target, Header: req.Header.Clone(), Body: body})
	rt.mu.Unlock()

	statusCode, resp := rt.handler(target, body)
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(strings.TrimSpace(resp))),
		Header:     http.Header{"Content-Type": []string{contentType(target)}},
		Request:    req,
	}, nil
}

// CallsTo returns the recorded calls for a target, in order.
func (rt *RoundTripper) CallsTo(target string) []Call {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	var calls []Call
	for _, call := range rt.calls {
		if call.Target == target {
			calls = append(calls, call)
		}
	}
	return calls
}

func contentType(target string) string {
	if strings.HasPrefix(target, "DynamoDB_") || strings.HasPrefix(target, "AWSStepFunctions.") {
		return "application/x-amz-json-1.0"
	}
	return "application/x-amz-json-1.1"
}
