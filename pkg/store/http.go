package store

import (
	"fmt"

	resty "github.com/go-resty/resty/v2"
)

type AuthHTTPStore struct {
	FileStore
	authHTTPClient *AuthHTTPClient
}

func (f *FileStore) WithAuthHTTPClient(c *AuthHTTPClient) *AuthHTTPStore {
	return &AuthHTTPStore{*f, c}
}

type AuthHTTPClient struct {
	restyClient *resty.Client
}

// NewAuthHTTPClient talks to the runpod graphql endpoint at apiURL.
func NewAuthHTTPClient(apiKey string, apiURL string) *AuthHTTPClient {
	restyClient := resty.New()
	restyClient.SetAuthToken(apiKey)
	restyClient.SetBaseURL(apiURL)
	restyClient.SetHeader("Content-Type", "application/json")
	restyClient.SetHeader("User-Agent", "podssh")
	return &AuthHTTPClient{restyClient}
}

func (c *AuthHTTPClient) SetDebug(debug bool) {
	c.restyClient.SetDebug(debug)
}

type HTTPResponseError struct {
	response *resty.Response
}

func NewHTTPResponseError(response *resty.Response) *HTTPResponseError {
	return &HTTPResponseError{
		response: response,
	}
}

func (e HTTPResponseError) Error() string {
	return fmt.Sprintf("%s %s", e.response.Request.URL, e.response.Status())
}

// GraphQLError is a 200 response carrying an errors array.
type GraphQLError struct {
	Message string
}

func (e GraphQLError) Error() string {
	return "graphql: " + e.Message
}
