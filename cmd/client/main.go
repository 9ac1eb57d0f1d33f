// Command client is a small console companion to the julekalender game:
// it drives the same storage facade the game uses, which makes it handy
// for inspecting a family's progress, moving state between devices via
// export/import, and administrative cleanup.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/evenstad/julekalender/internal/config"
	"github.com/evenstad/julekalender/internal/logger"
	"github.com/evenstad/julekalender/internal/manager"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewFile("julekalender-client", "julekalender-client.log")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	m := manager.New(cfg, nil, log)
	defer m.Close()

	fmt.Printf("julekalender console (%s mode), type 'help' for commands\n", cfg.Mode)
	runConsole(m, os.Stdin)

	// give pending syncs a chance to land before exit
	if err = m.DrainAll(context.Background()); err != nil {
		log.Err(err).Msg("error draining pending syncs on exit")
	}
}

func runConsole(m *manager.StorageManager, in *os.File) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		switch cmd {
		case "":
		case "help":
			printHelp()
		case "login":
			login(m, arg)
		case "status":
			printStatus(m)
		case "export":
			exportState(m, arg)
		case "import":
			importState(m, arg)
		case "names":
			fetchNames(m)
		case "reset":
			m.ResetProgress()
			fmt.Println("progress reset")
		case "delete-account":
			if err := m.DeleteAccount(context.Background()); err != nil {
				fmt.Printf("delete failed: %v\n", err)
			} else {
				fmt.Println("account deleted")
			}
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q, type 'help'\n", cmd)
		}
	}
}

func login(m *manager.StorageManager, credential string) {
	if credential == "" {
		fmt.Println("usage: login <family credential>")
		return
	}
	if err := m.UseTenant(context.Background(), credential); err != nil {
		fmt.Printf("login failed: %v\n", err)
		return
	}
	fmt.Printf("logged in, tenant %s\n", m.TenantID())
}

func printStatus(m *manager.StorageManager) {
	fmt.Printf("tenant:          %s\n", m.TenantID())
	fmt.Printf("submitted codes: %d\n", len(m.SubmittedCodes()))
	fmt.Printf("earned badges:   %d\n", len(m.EarnedBadges()))
	fmt.Printf("topic unlocks:   %d\n", len(m.TopicUnlocks()))
	fmt.Printf("dagbok day:      %d\n", m.DagbokLastRead())
	fmt.Printf("sounds/music:    %t/%t\n", m.SoundsEnabled(), m.MusicEnabled())
}

func exportState(m *manager.StorageManager, path string) {
	raw, err := m.Export()
	if err != nil {
		fmt.Printf("export failed: %v\n", err)
		return
	}
	if path == "" {
		fmt.Println(string(raw))
		return
	}
	if err = os.WriteFile(path, raw, 0o600); err != nil {
		fmt.Printf("export failed: %v\n", err)
		return
	}
	fmt.Printf("exported to %s\n", path)
}

func importState(m *manager.StorageManager, path string) {
	if path == "" {
		fmt.Println("usage: import <file>")
		return
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("import failed: %v\n", err)
		return
	}
	if err = m.Import(raw); err != nil {
		fmt.Printf("import failed: %v\n", err)
		return
	}
	fmt.Println("state imported")
}

func fetchNames(m *manager.StorageManager) {
	names, err := m.FetchPlayerNames(context.Background())
	if err != nil {
		fmt.Printf("fetch failed: %v\n", err)
		return
	}
	fmt.Printf("players: %s\n", strings.Join(names, ", "))
}

func printHelp() {
	fmt.Println(`commands:
  login <credential>   select the family by its credential
  status               show progress counters
  export [file]        dump tracked state as JSON
  import <file>        load state from a JSON dump
  names                fetch player names from the session store
  reset                reset game progress (keeps the account)
  delete-account       remove the remote session document
  quit`)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
