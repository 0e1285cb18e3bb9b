package main

import "github.com/verifyica-go/verifyica/cmd/verifyica/cmd"

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
