package main

import "github.com/k-shtanenko/temperature-archive/internal/bootstrap"

func main() {
	bootstrap.Bootstrap()
}
