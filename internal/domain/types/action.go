package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"

	ActionUserCreatedPublish = "user_created_publish"
	ActionTokenValidate      = "token_validate"
	ActionDatabaseFailed     = "database_operation_failed"
)
