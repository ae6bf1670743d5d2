package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"
)

var defaultHTTPClient = &http.Client{Timeout: 60 * time.Second}

// HTTPClient returns the shared HTTP client used for collaborator queries
func HTTPClient() *http.Client {
	return defaultHTTPClient
}

// HTTPError writes an error message and status code to the response,
// logging the failed request
func HTTPError(r *http.Request, w http.ResponseWriter, ctx LogContext, message string, code int) {
	LogAudit(ctx, LogAuditInput{
		Actor:    "system",
		Action:   r.Method + " response",
		Actee:    r.URL.String(),
		Message:  message,
		Severity: ERROR,
	})
	http.Error(w, message, code)
}

// ReqByObjJSON performs an HTTP request with a JSON body marshaled from
// input, unmarshaling the JSON response into output. A nil input sends no
// body. Returns the response for status inspection.
func ReqByObjJSON(method, url, auth string, input, output interface{}) (*http.Response, error) {
	var bodyReader *bytes.Reader
	if input != nil {
		bodyBytes, err := json.Marshal(input)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	request, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	if auth != "" {
		request.Header.Set("Authorization", auth)
	}

	response, err := HTTPClient().Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	bodyData, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return response, err
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return response, fmt.Errorf("non-2xx response code from %s: %d", url, response.StatusCode)
	}

	if output != nil {
		if err = json.Unmarshal(bodyData, output); err != nil {
			return response, err
		}
	}

	return response, nil
}
