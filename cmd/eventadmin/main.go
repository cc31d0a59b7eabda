// @title Event Admin API
// @version 1.0
// @description Manage the persisted event collection and admin accounts.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import "eventadmin/internal/cli"

func main() {
	cli.Execute()
}
