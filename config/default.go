package config

// DefaultValues is the default configuration
const DefaultValues = `
[Log]
Environment = "development"
Level = "debug"
Outputs = ["stdout"]

[Database]
Database = "postgres"
User = "test_user"
Password = "test_password"
Name = "test_db"
Host = "vault-service-db"
Port = "5432"
MaxConns = 20
SSLMode = "disable"
RunMigrations = true

[Redis]
Enabled = false
IsClusterMode = false
Addrs = ["vault-service-redis:6379"]
DB = 0
KeyPrefix = "vault:"
SummaryTTL = "0s"

[MessagePushProducer]
Enabled = false
UseFakeProducer = true
Brokers = ["vault-service-kafka:9092"]
Topic = "vault-events"

[Metrics]
Enabled = true
Port = "9091"
Endpoint = "/metrics"
Env = "local"

[Server]
HTTPPort = "8080"
ReadTimeout = "10s"
WriteTimeout = "10s"
DefaultPageLimit = 25
MaxPageLimit = 100
OperatorToken = ""
`
