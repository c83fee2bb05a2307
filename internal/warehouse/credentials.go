// Package warehouse loads the consolidated RecordSet into a Snowflake table.
// Every run is idempotent: database, schema and table are ensured with
// IF NOT EXISTS before any data moves, and the load is verified by row count
// afterwards. The loader degrades cleanly when credentials are absent so the
// CSV artifact is still produced.
package warehouse

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/snowflakedb/gosnowflake"
)

// Environment keys for warehouse credentials. Credentials never appear in the
// pipeline file.
const (
	EnvAccount   = "SNOWFLAKE_ACCOUNT"
	EnvUser      = "SNOWFLAKE_USER"
	EnvPassword  = "SNOWFLAKE_PASSWORD"
	EnvWarehouse = "SNOWFLAKE_WAREHOUSE"
	EnvRole      = "SNOWFLAKE_ROLE"
)

// Credentials holds the connection identity. Warehouse and Role are optional;
// the account defaults apply when they are empty.
type Credentials struct {
	Account   string
	User      string
	Password  string
	Warehouse string
	Role      string
}

// CredentialsFromEnv reads credentials from the environment, first merging a
// .env file from the working directory if one exists. Variables already set
// in the environment win over the file.
func CredentialsFromEnv() Credentials {
	_ = godotenv.Load()
	return Credentials{
		Account:   os.Getenv(EnvAccount),
		User:      os.Getenv(EnvUser),
		Password:  os.Getenv(EnvPassword),
		Warehouse: os.Getenv(EnvWarehouse),
		Role:      os.Getenv(EnvRole),
	}
}

// Complete reports whether the connector can attempt a connection. Account,
// user and password are mandatory.
func (c Credentials) Complete() bool {
	return c.Account != "" && c.User != "" && c.Password != ""
}

// DSN renders the driver connection string. Database and schema are not part
// of it; the loader creates and selects them itself.
func (c Credentials) DSN() (string, error) {
	cfg := gosnowflake.Config{
		Account:   c.Account,
		User:      c.User,
		Password:  c.Password,
		Warehouse: c.Warehouse,
		Role:      c.Role,
	}
	return gosnowflake.DSN(&cfg)
}
