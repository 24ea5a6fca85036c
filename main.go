package main

import (
	"os"

	"github.com/tsreorg/tsreorg/internal/app"
)

func main() {
	os.Exit(app.Run())
}
