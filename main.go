package main

import "github.com/EO-DataHub/eodhp-group-services/cmd"

func main() {
	cmd.Execute()
}
