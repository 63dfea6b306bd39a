package main

import (
	"os"

	"github.com/GoMarket-Shop/GoMarket/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
