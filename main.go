package main

import "github.com/tenderops/tender-management/cmd"

func main() {
	cmd.Execute()
}
