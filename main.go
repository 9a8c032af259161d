package main

import "github.com/velonis/field-reports/cmd"

func main() {
	cmd.Execute()
}
