package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// HTTPArguments describes a single outgoing request.
type HTTPArguments struct {
	Method      string
	URL         string
	BearerToken string // sent as "Authorization: Bearer <token>" when set
	Headers     map[string]string
	Query       map[string]any
	Body        any // JSON encoded

	// Multipart bodies take precedence over Body.
	FormFields map[string]string
	FormFiles  []MultipartFile
}

// MultipartFile is one file part of a multipart request.
type MultipartFile struct {
	Param       string
	FileName    string
	ContentType string
	Reader      io.Reader
}

func (a *HTTPArguments) isMultipart() bool {
	return a.FormFields != nil || len(a.FormFiles) > 0
}

func InvokeHttpRequestWithClient(ctx context.Context, client *resty.Client, r *HTTPArguments) (*resty.Response, error) {

	builder, err := CreateRequestBuilderWithClient(client, r)

	if err != nil {
		logrus.WithFields(logrus.Fields{
			"url": requestURL(r),
		}).WithError(err).Errorln("Failed to create request builder")
		return nil, err
	}

	resp, err := MakeRequestFromBuilder(builder.SetContext(ctx), r.Method, r.URL)

	if err != nil {
		logrus.WithFields(logrus.Fields{
			"url": r.URL,
		}).WithError(err).Debugln("Request did not complete")
		return nil, err
	}

	return resp, nil

}

func MakeRequestFromBuilder(restBuilder *resty.Request, method string, finalUrl string) (*resty.Response, error) {

	switch strings.ToUpper(method) {
	case http.MethodGet:
		return restBuilder.Get(finalUrl)
	case http.MethodPost:
		return restBuilder.Post(finalUrl)
	case http.MethodPut:
		return restBuilder.Put(finalUrl)
	case http.MethodDelete:
		return restBuilder.Delete(finalUrl)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s. Ensure you're using the http const", method)
	}

}

// CreateRequestBuilderWithClient turns args into a resty request on client.
func CreateRequestBuilderWithClient(client *resty.Client, req *HTTPArguments) (*resty.Request, error) {
	if err := validateHTTPArguments(req); err != nil {
		return nil, err
	}

	restBuilder := client.R()

	configureAuthentication(restBuilder, req)
	configureRequestParameters(restBuilder, req)
	configureRequestBody(restBuilder, req)

	return restBuilder, nil
}

func validateHTTPArguments(req *HTTPArguments) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	if len(req.URL) == 0 {
		return fmt.Errorf("request url is empty")
	}
	return nil
}

func configureAuthentication(restBuilder *resty.Request, req *HTTPArguments) {
	if len(req.BearerToken) == 0 {
		return
	}
	restBuilder.SetAuthToken(req.BearerToken)
}

func configureRequestParameters(restBuilder *resty.Request, req *HTTPArguments) {
	if len(req.Query) > 0 {
		for k, v := range req.Query {
			restBuilder.SetQueryParam(k, fmt.Sprintf("%v", v))
		}
	}

	if len(req.Headers) > 0 {
		restBuilder.SetHeaders(req.Headers)
	}
}

func configureRequestBody(restBuilder *resty.Request, req *HTTPArguments) {
	if req.isMultipart() {
		if len(req.FormFields) > 0 {
			restBuilder.SetMultipartFormData(req.FormFields)
		}
		for _, file := range req.FormFiles {
			restBuilder.SetMultipartField(file.Param, file.FileName, file.ContentType, file.Reader)
		}
		return
	}

	if req.Body != nil {
		restBuilder.SetBody(req.Body).
			SetHeader("Content-Type", "application/json")
	}
}

func requestURL(r *HTTPArguments) string {
	if r == nil {
		return ""
	}
	return r.URL
}
