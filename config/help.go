package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
  User auth service.

  Environment variables:
    SERVER_PORT              HTTP listen port (default 3005)
    DATABASE_*               PostgreSQL connection settings
    RABBITMQ_*               RabbitMQ connection and topology settings
    AUTH_JWT_SECRET          HMAC signing secret, at least 32 bytes (required)
    AUTH_ACCESS_TOKEN_TTL    Access token lifetime (default 24h)
    LOG_LEVEL                DEBUG, INFO, WARN or ERROR (default DEBUG)
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
