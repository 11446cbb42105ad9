package types

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type PredictionMethod string

const (
	PredictionMethodPredict      PredictionMethod = "predict"
	PredictionMethodPredictProba PredictionMethod = "predict_proba"
)

func (m PredictionMethod) Valid() bool {
	return m == PredictionMethodPredict || m == PredictionMethodPredictProba
}

type ProblemType string

const (
	ProblemTypeClassification ProblemType = "classification"
	ProblemTypeRegression     ProblemType = "regression"
)

func (p ProblemType) Valid() bool {
	return p == ProblemTypeClassification || p == ProblemTypeRegression
}
