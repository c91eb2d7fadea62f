package main

import (
	"github.com/custodia-labs/pagevault/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
