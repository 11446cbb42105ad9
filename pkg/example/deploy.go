package example

var DEPLOY_EXAMPLE = `
name: iris
description: Iris classifier
model:
  type: sklearn
  serverless: false
  blob:
    url: s3://models/acme/iris/model
  resources:
    instanceType: cpu-small
    cpuLimit: 2
    cpuRequest: 500m
    memLimit: 2Gi
    memRequest: 1Gi
explainer:
  docker:
    image: acme/iris-explainer:1.0
    port: 8080
exampleInput:
- [5.1, 3.5, 1.4, 0.2]
exampleOutput:
- 0
predictionMethod: predict_proba
featureLabels: [sepal_length, sepal_width, petal_length, petal_width]
problemType: classification
predictionClasses:
  "0": setosa
  "1": versicolor
  "2": virginica
commitMessage: "[mldeploy] Deploy {{ .Name }} ({{ .ModelType }})"
`
