package main

import "price_backend/internal/app/cli"

func main() {
	cli.Execute()
}
