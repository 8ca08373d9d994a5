package main

import (
	"github.com/joshuahansel/sem-go/cmd"
)

func main() {
	cmd.Execute()
}
