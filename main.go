package main

import (
	"fmt"
	"os"
	"strings"

	"socialnet/service"
)

const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches the command line. It is separate from main so tests can drive it.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("socialnet version %s\n", CliVersion)
	case "serve":
		exit(service.RunAppServer())
	case "db":
		exit(service.HandleCommand(os.Args[2:]))
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: socialnet <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve                          Run the HTTP API. Configured through environment
                                 variables or a .env file in the working directory.
  db <command>                   Manage the embedded database:
                                   init, clean, backup [file], restore <file>
`
	fmt.Println(helpText)
}
