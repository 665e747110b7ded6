package helpers

import (
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

func TestProbeSiteReturnsHTML(t *testing.T) {
	httpmock.ActivateNonDefault(client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://example.com/search",
		httpmock.NewStringResponder(200, "<html><body>ok</body></html>"))

	body, err := ProbeSite("https://example.com/search")
	assert.NoError(t, err)
	assert.Contains(t, string(body), "<body>ok</body>")
}

func TestProbeSiteRejectsNonHTML(t *testing.T) {
	httpmock.ActivateNonDefault(client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://example.com/api",
		httpmock.NewStringResponder(200, `{"captcha": true}`))

	_, err := ProbeSite("https://example.com/api")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "non-HTML")
}

func TestProbeSiteRateLimited(t *testing.T) {
	httpmock.ActivateNonDefault(client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://example.com/busy",
		func(req *http.Request) (*http.Response, error) {
			resp := httpmock.NewStringResponse(http.StatusTooManyRequests, "slow down")
			resp.Header.Set("Retry-After", "30")
			return resp, nil
		})

	_, err := ProbeSite("https://example.com/busy")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestProbeSiteBadStatus(t *testing.T) {
	httpmock.ActivateNonDefault(client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://example.com/missing",
		httpmock.NewStringResponder(404, "not found"))

	_, err := ProbeSite("https://example.com/missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code")
}
