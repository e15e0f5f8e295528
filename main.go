package main

import (
	"github.com/axellelanca/itrules/cmd"
	_ "github.com/axellelanca/itrules/cmd/cli"
	_ "github.com/axellelanca/itrules/cmd/server"
)

func main() {
	cmd.Execute()
}
