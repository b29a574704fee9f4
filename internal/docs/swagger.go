// Package docs carries the general API annotations and the registered
// OpenAPI document served under /swagger.
package docs

// @title Mailroom API
// @version 1.0
// @description List management API: mailing lists, subscribers, custom fields and campaigns.

// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey AccessToken
// @in query
// @name access_token
// @description Per-user API token

// @tag.name lists
// @tag.description Mailing list creation

// @tag.name subscriptions
// @tag.description Subscribe, unsubscribe and delete addresses, and manage list custom fields

// @tag.name campaigns
// @tag.description Campaign drafts and scheduled sends
