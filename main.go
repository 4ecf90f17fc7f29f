package main

import "github.com/biosecret/go-todo/cmd"

//	@title						Todo API
//	@version					1.0
//	@description				Role-based todo list: users manage their own todos, admins manage everybody's.
//	@BasePath					/api
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	cmd.Execute()
}
