package store

import (
	"encoding/json"

	"github.com/samber/mo"
	"github.com/tidwall/gjson"

	"github.com/runpod/podssh/pkg/entity"
	breverrors "github.com/runpod/podssh/pkg/errors"
)

const podQuery = `query Pod($input: PodFilter) {
  pod(input: $input) {
    id
    name
    desiredStatus
    imageName
    runtime {
      uptimeInSeconds
      ports { ip isIpPublic privatePort publicPort type }
    }
  }
}`

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GetPod returns nil when the api knows no such pod.
func (s AuthHTTPStore) GetPod(podID string) (*entity.Pod, error) {
	res, err := s.authHTTPClient.restyClient.R().
		SetBody(graphQLRequest{
			Query:     podQuery,
			Variables: map[string]interface{}{"input": map[string]string{"podId": podID}},
		}).
		Post("")
	if err != nil {
		return nil, breverrors.WrapAndTrace(err, breverrors.NetworkErrorMessage)
	}
	if res.IsError() {
		return nil, NewHTTPResponseError(res)
	}

	body := res.Body()
	if msg := gjson.GetBytes(body, "errors.0.message"); msg.Exists() {
		return nil, breverrors.WrapAndTrace(GraphQLError{Message: msg.String()})
	}
	raw := gjson.GetBytes(body, "data.pod")
	if !raw.Exists() || raw.Type == gjson.Null {
		return nil, nil
	}

	var pod entity.Pod
	if err := json.Unmarshal([]byte(raw.Raw), &pod); err != nil {
		return nil, breverrors.WrapAndTrace(err)
	}
	return &pod, nil
}

// ResolveAddress maps a pod to the public ip and port of its sshd. None means
// the pod is unknown, not running, or has no public ssh port.
func (s AuthHTTPStore) ResolveAddress(podID string) (mo.Option[entity.PodAddress], error) {
	pod, err := s.GetPod(podID)
	if err != nil {
		return mo.None[entity.PodAddress](), breverrors.WrapAndTrace(err)
	}
	if pod == nil {
		return mo.None[entity.PodAddress](), nil
	}
	return pod.SSHAddress(), nil
}
