package main

import "omnifetch/internal/bootstrap"

func main() {
	bootstrap.NewApp().Run()
}
