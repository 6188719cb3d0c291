package httpclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_SendsHeadersAndDecodes(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodPost, "https://iam.test/v1/echo",
		func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("X-Api-Key") != "k" || req.Header.Get("Content-Type") != "application/json" {
				return httpmock.NewStringResponse(http.StatusBadRequest, "missing headers"), nil
			}
			return httpmock.NewJsonResponse(http.StatusOK, map[string]string{"status": "ok"})
		})

	c, err := New(Options{BaseURL: "https://iam.test/", Headers: map[string]string{"X-Api-Key": "k"}})
	require.NoError(t, err)

	var out struct {
		Status string `json:"status"`
	}
	require.NoError(t, c.DoJSON(context.Background(), http.MethodPost, "v1/echo", nil, map[string]string{"a": "b"}, &out))
	assert.Equal(t, "ok", out.Status)
}

func TestDoJSON_Non2xxIsHTTPError(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodGet, "https://iam.test/x",
		httpmock.NewStringResponder(http.StatusForbidden, " denied "))

	c, err := New(Options{})
	require.NoError(t, err)

	err = c.DoJSON(context.Background(), http.MethodGet, "https://iam.test/x", nil, nil, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, StatusCode(err))
	assert.Contains(t, err.Error(), "body=denied")
}

func TestDoJSON_RelativePathNeedsBaseURL(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)

	err = c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil)
	assert.Error(t, err)
	assert.Zero(t, StatusCode(err))
}

func TestNew_RejectsInvalidBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "not a url"})
	assert.Error(t, err)
}
