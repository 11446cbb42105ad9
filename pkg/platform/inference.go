package platform

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/kuberlab/mldeploy/pkg/types"
)

// Prediction holds both the v1 ({"predictions": [...]}) and the v2
// inference protocol responses.
type Prediction struct {
	Predictions  []interface{} `json:"predictions,omitempty"`
	ID           string        `json:"id,omitempty"`
	ModelName    string        `json:"model_name,omitempty"`
	ModelVersion string        `json:"model_version,omitempty"`
	Outputs      []interface{} `json:"outputs,omitempty"`
}

func (p *Prediction) Version() int {
	if p.Outputs != nil || p.ModelName != "" {
		return 2
	}
	return 1
}

type RequestLog struct {
	ID             string          `json:"id"`
	DeploymentID   string          `json:"deploymentId"`
	CommitID       string          `json:"commit,omitempty"`
	RequestContent interface{}     `json:"requestContent,omitempty"`
	ResponseTimeMS int             `json:"responseTimeMS"`
	StatusCode     int             `json:"statusCode"`
	TokenID        string          `json:"tokenId,omitempty"`
	CreatedAt      types.TimeMilli `json:"createdAt"`
}

type RequestLogs struct {
	Data  []RequestLog `json:"data"`
	Count int          `json:"count"`
}

type PredictionLog struct {
	ID                   string                 `json:"id"`
	DeploymentID         string                 `json:"deploymentId"`
	RequestBody          map[string]interface{} `json:"requestBody,omitempty"`
	ResponseBody         map[string]interface{} `json:"responseBody,omitempty"`
	ResponseTimeMS       int                    `json:"responseTimeMS"`
	StatusCode           int                    `json:"statusCode"`
	CreatedAt            types.TimeMilli        `json:"createdAt"`
	PredictionValidation map[string]interface{} `json:"predictionValidation,omitempty"`
}

type PredictionLogs struct {
	Data  []PredictionLog `json:"data"`
	Count int             `json:"count"`
}

// Evaluation judges one prediction. Result 0 confirms the prediction and
// must not carry a value.
type Evaluation struct {
	Result      int         `json:"result"`
	Value       interface{} `json:"value,omitempty"`
	Explanation string      `json:"explanation,omitempty"`
}

type Actuals struct {
	PredictionIDs []string      `json:"predictionIds"`
	ActualValues  []interface{} `json:"actualValues"`
}

func deploymentURL(workspaceID, deploymentID string) string {
	return fmt.Sprintf("/workspaces/%v/deployments/%v", workspaceID, deploymentID)
}

func (c *Client) Predict(workspaceID, deploymentID string, body interface{}) (*Prediction, error) {
	u := deploymentURL(workspaceID, deploymentID) + "/predict"

	var p = &Prediction{}
	if err := c.do(http.MethodPost, u, AuthAll, body, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *Client) Explain(workspaceID, deploymentID string, body interface{}, image bool) (interface{}, error) {
	u := withQuery(
		deploymentURL(workspaceID, deploymentID)+"/explain",
		url.Values{"image": {strconv.FormatBool(image)}},
	)

	var explanation interface{}
	if err := c.do(http.MethodPost, u, AuthAll, body, &explanation); err != nil {
		return nil, err
	}
	return explanation, nil
}

func (c *Client) GetRequestLogs(workspaceID, deploymentID string) (*RequestLogs, error) {
	u := deploymentURL(workspaceID, deploymentID) + "/requestLogs"

	var logs = &RequestLogs{}
	if err := c.do(http.MethodGet, u, AuthAll, nil, logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Client) GetPredictionLogs(workspaceID, deploymentID string) (*PredictionLogs, error) {
	u := deploymentURL(workspaceID, deploymentID) + "/predictionLogs"

	var logs = &PredictionLogs{}
	if err := c.do(http.MethodGet, u, AuthAll, nil, logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Client) GetPredictionLog(workspaceID, deploymentID, requestLogID, predictionLogID string) (*PredictionLog, error) {
	u := fmt.Sprintf(
		"%v/requestLogs/%v/predictionLogs/%v",
		deploymentURL(workspaceID, deploymentID), requestLogID, predictionLogID,
	)

	var log = &PredictionLog{}
	if err := c.do(http.MethodGet, u, AuthAll, nil, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (c *Client) Evaluate(workspaceID, deploymentID, requestLogID, predictionLogID string, eval Evaluation) error {
	if eval.Result == 0 && eval.Value != nil {
		return errors.Smart(
			http.StatusBadRequest,
			errors.InvalidOptions,
			"An evaluation value can not be provided when confirming the inference",
		)
	}
	u := fmt.Sprintf(
		"%v/requestLogs/%v/predictionLogs/%v/evaluations",
		deploymentURL(workspaceID, deploymentID), requestLogID, predictionLogID,
	)

	err := c.do(http.MethodPost, u, AuthToken, eval, nil)
	return explainStatus(err, map[int]string{
		http.StatusConflict:     "Log has already been evaluated",
		http.StatusUnauthorized: "No permission to perform this action",
	})
}

func (c *Client) SubmitActuals(workspaceID, deploymentID string, actuals Actuals) error {
	u := deploymentURL(workspaceID, deploymentID) + "/actuals"

	err := c.do(http.MethodPut, u, AuthToken, actuals, nil)
	return explainStatus(err, map[int]string{
		http.StatusUnauthorized: "No permission to perform this action",
	})
}

// explainStatus prefixes a remote failure with a readable message for the
// statuses in messages.
func explainStatus(err error, messages map[int]string) error {
	e, ok := err.(*errors.Error)
	if !ok || !errors.HasReason(err, errors.RemoteRequestFailed) {
		return err
	}
	message, ok := messages[e.HttpStatus()]
	if !ok {
		return err
	}
	return errors.Smart(fmt.Sprintf("%v: %v", message, e.Error()), e)
}
