// @title College Table API
// @version 1.0
// @description Boards, friends, chat and course search for College Table.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

func main() {
	Execute()
}
