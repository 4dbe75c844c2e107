package main

import (
	"github.com/phil-mansfield/gridify/lib/cli"
	"github.com/phil-mansfield/gridify/lib/error"
)

var (
	version = "dev"
	commit  = ""
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			error.Internal("%v", r)
		}
	}()

	cli.SetVersion(version, commit)
	if err := cli.Execute(); err != nil {
		error.External("%s", err.Error())
	}
}
