package main

import "blogsite/service"

func main() {
	service.Execute()
}
