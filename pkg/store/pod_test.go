package store

import (
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runpod/podssh/pkg/entity"
	breverrors "github.com/runpod/podssh/pkg/errors"
)

func registerPodResponse(t *testing.T, body string) *AuthHTTPStore {
	t.Helper()
	s := MakeMockAuthHTTPStore()
	httpmock.ActivateNonDefault(s.authHTTPClient.restyClient.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder("POST", testAPIURL, httpmock.NewStringResponder(200, body))
	return s
}

func TestResolveAddress_PublicSSHPort(t *testing.T) {
	s := registerPodResponse(t, `{"data":{"pod":{"id":"p1","name":"train","desiredStatus":"RUNNING",
		"runtime":{"uptimeInSeconds":12,"ports":[
			{"ip":"100.65.0.2","isIpPublic":false,"privatePort":22,"publicPort":22,"type":"tcp"},
			{"ip":"1.2.3.4","isIpPublic":true,"privatePort":8888,"publicPort":8888,"type":"http"},
			{"ip":"1.2.3.4","isIpPublic":true,"privatePort":22,"publicPort":2222,"type":"tcp"}
		]}}}}`)

	got, err := s.ResolveAddress("p1")
	require.NoError(t, err)
	assert.Equal(t, entity.PodAddress{Host: "1.2.3.4", Port: 2222}, got.MustGet())
}

func TestResolveAddress_Absent(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown pod", `{"data":{"pod":null}}`},
		{"not started", `{"data":{"pod":{"id":"p1","desiredStatus":"RUNNING","runtime":null}}}`},
		{"no public ssh", `{"data":{"pod":{"id":"p1","runtime":{"ports":[{"ip":"10.0.0.1","isIpPublic":false,"privatePort":22,"publicPort":22}]}}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := registerPodResponse(t, tt.body)
			got, err := s.ResolveAddress("p1")
			require.NoError(t, err)
			assert.True(t, got.IsAbsent())
		})
	}
}

func TestGetPod_GraphQLError(t *testing.T) {
	s := registerPodResponse(t, `{"errors":[{"message":"Unauthorized"}]}`)

	_, err := s.GetPod("p1")
	require.Error(t, err)
	var gqlErr GraphQLError
	assert.True(t, breverrors.As(err, &gqlErr))
	assert.Equal(t, "Unauthorized", gqlErr.Message)
}

func TestGetPod_HTTPError(t *testing.T) {
	s := MakeMockAuthHTTPStore()
	httpmock.ActivateNonDefault(s.authHTTPClient.restyClient.GetClient())
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder("POST", testAPIURL, httpmock.NewStringResponder(401, ""))

	_, err := s.GetPod("p1")
	require.Error(t, err)
	assert.IsType(t, &HTTPResponseError{}, err)
}
