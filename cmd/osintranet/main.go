package main

import (
	"os"

	"osintranet/internal/commands"
)

// @title OS Intranet Accounting
// @version 1.0
// @description Accountings, accounts, budget accounts, contact accounts and posting journals.

// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
