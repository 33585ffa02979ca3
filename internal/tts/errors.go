package tts

import (
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

func statusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	var aerr *openai.APIError
	if errors.As(err, &aerr) {
		return aerr.HTTPStatusCode
	}
	var rerr *openai.RequestError
	if errors.As(err, &rerr) {
		return rerr.HTTPStatusCode
	}
	return 0
}

// IsUnauthorized reports rejected or insufficient credentials.
func IsUnauthorized(err error) bool {
	code := statusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsQuotaExceeded reports rate limiting or exhausted quota.
func IsQuotaExceeded(err error) bool {
	return statusCode(err) == http.StatusTooManyRequests
}
