// Package env tells local runs apart from production deployments.
package env

import (
	"os"
	"strings"
)

type Environment string

const (
	Local      Environment = "local"
	Production Environment = "production"

	Key string = "ENV"
)

func (e Environment) Valid() bool {
	switch e {
	case Local, Production:
		return true
	}
	return false
}

// Parse maps an ENV value onto an environment. Anything unknown is Local.
func Parse(s string) Environment {
	switch e := Environment(strings.ToLower(strings.TrimSpace(s))); e {
	case "prod":
		return Production
	case "dev", "development":
		return Local
	default:
		if e.Valid() {
			return e
		}
		return Local
	}
}

var Current = Parse(os.Getenv(Key))
