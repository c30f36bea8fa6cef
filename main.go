package main

import "github.com/cadre-hq/cadre/cmd"

func main() {
	cmd.Execute()
}
