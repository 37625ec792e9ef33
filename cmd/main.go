// @title IntelliQRHelp API
// @version 1.0
// @description Emergency profile, QR identity and SOS API

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "github.com/TanushriS/IntelliQRHelp/cmd/command"

func main() {
	command.Execute()
}
