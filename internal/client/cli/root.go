package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chemizer/analytics-cli/internal/common"
)

// authCommands are the commands that need an established session.
var authCommands = map[string]struct{}{
	"logout": {}, "profile": {}, "update": {}, "passwd": {},
	"upload": {}, "history": {}, "view": {}, "report": {},
	"delete": {}, "export": {}, "wipe": {},
}

func requiresLogin(cmd string) bool {
	_, ok := authCommands[cmd]
	return ok
}

func (a *App) getStatus() string {
	if u, ok := a.sess.User(); ok {
		return fmt.Sprintf("(%s)", u.Username)
	}
	return ""
}

// Root runs the command loop. Exits on EOF or "exit"/"quit".
func (a *App) Root(ctx context.Context) {
	fmt.Println("Chemizer Analytics CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("chemizer %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		if requiresLogin(cmd) && !a.isLoggedIn() {
			fmt.Printf("%s: %v. Use 'login' or 'register' first.\n", cmd, common.ErrNoSession)
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: upload <path>, history, view [id], report <id>, delete <id...>, export, wipe, profile, update, passwd, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, google <id-token>, exit")
			}

		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "google":
			if len(args) == 0 {
				fmt.Println("Usage: google <id-token>")
				continue
			}
			a.googleLogin(ctx, args[0])
		case "logout":
			a.logout(ctx)
		case "profile":
			a.showProfile(ctx)
		case "update":
			a.updateProfile(ctx)
		case "passwd":
			a.changePassword(ctx)
		case "upload":
			if len(args) == 0 {
				fmt.Println("Usage: upload <path>")
				continue
			}
			a.upload(ctx, args[0])
		case "history":
			a.history(ctx)
		case "view":
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			a.viewResults(ctx, id)
		case "report":
			if len(args) == 0 {
				fmt.Println("Usage: report <upload-id>")
				continue
			}
			a.downloadReport(ctx, args[0])
		case "delete":
			if len(args) == 0 {
				fmt.Println("Usage: delete <upload-id> [upload-id...]")
				continue
			}
			a.deleteUploads(ctx, args)
		case "export":
			a.exportAllData(ctx)
		case "wipe":
			a.deleteAllData(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
