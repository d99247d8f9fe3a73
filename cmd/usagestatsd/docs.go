package main

// General API documentation for swaggo.
//
// @title           usagestats API
// @version         1.0
// @description     Deployment lifecycle ingestion and usage statistics toggling.
//
// @BasePath  /
//
// @schemes http
//
// Publish a deployment lifecycle event.
//
// @Summary  Publish event
// @Tags     events
// @Accept   json
// @Produce  json
// @Param    name  path  string                   true  "deployment.done or deployment.error"
// @Param    body  body  types.DeploymentPayload  true  "Event payload"
// @Success  202  {object}  types.PublishResponse
// @Failure  400  {object}  types.ErrorResponse
// @Failure  404  {object}  types.ErrorResponse
// @Failure  415  {object}  types.ErrorResponse
// @Failure  422  {object}  types.ErrorResponse
// @Failure  429  {object}  types.ErrorResponse
// @Failure  502  {object}  types.ErrorResponse
// @Router   /events/{name} [post]
//
// Usage statistics state.
//
// @Summary  Usage status
// @Tags     usage
// @Produce  json
// @Success  200  {object}  types.UsageStatus
// @Router   /usage [get]
//
// @Summary  Toggle usage statistics
// @Tags     usage
// @Accept   json
// @Produce  json
// @Param    body  body  types.UsageToggleRequest  true  "Desired state"
// @Success  200  {object}  types.UsageStatus
// @Failure  400  {object}  types.ErrorResponse
// @Router   /usage [put]
