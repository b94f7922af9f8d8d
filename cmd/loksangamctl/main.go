package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"loksangam/internal/config"
	"loksangam/internal/database"
	"loksangam/internal/gateway"
	"loksangam/internal/models"
	"loksangam/internal/session"
	"loksangam/internal/tickets/qr"
)

const usage = `loksangamctl - LokSangam event registration client

Usage:
  loksangamctl login -email <email> -password <password>
  loksangamctl logout
  loksangamctl whoami
  loksangamctl events
  loksangamctl pending
  loksangamctl request -name <name> -date <date> -location <loc> -seats <n>
  loksangamctl verify -id <eventID>
  loksangamctl register -id <eventID> -name <name> -email <email> -seats <n> [-qr <out.png>]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	client, cleanup, err := buildClient(ctx, cfg)
	if err != nil {
		fail(err)
	}
	defer cleanup()

	switch os.Args[1] {
	case "login":
		runLogin(ctx, client, os.Args[2:])
	case "logout":
		if err := client.Logout(ctx); err != nil {
			fail(err)
		}
		fmt.Println("Logged out.")
	case "whoami":
		runWhoami(ctx, client)
	case "events":
		runEvents(ctx, client)
	case "pending":
		runPending(ctx, client)
	case "request":
		runRequest(ctx, client, os.Args[2:])
	case "verify":
		runVerify(ctx, client, os.Args[2:])
	case "register":
		runRegister(ctx, client, os.Args[2:])
	default:
		fmt.Print(usage)
		os.Exit(1)
	}
}

func buildClient(ctx context.Context, cfg *config.Config) (*gateway.Client, func(), error) {
	if path, ok := strings.CutPrefix(cfg.Client.SessionDSN, "file:"); ok {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0700); err != nil {
				return nil, nil, fmt.Errorf("create session directory: %w", err)
			}
		}
	}

	bunDB, err := database.Open(cfg.Client.SessionDSN)
	if err != nil {
		return nil, nil, err
	}
	storage, err := session.NewKVStorage(ctx, bunDB)
	if err != nil {
		bunDB.Close()
		return nil, nil, err
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	client := gateway.New(cfg.Client.BaseURL, httpClient, session.NewStore(storage), nil)
	return client, func() { bunDB.Close() }, nil
}

func runLogin(ctx context.Context, client *gateway.Client, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password")
	fs.Parse(args)
	if *email == "" || *password == "" {
		fail(fmt.Errorf("-email and -password are required"))
	}

	resp, err := client.Login(ctx, *email, *password)
	if err != nil {
		fail(err)
	}
	fmt.Printf("%s (role: %s)\n", resp.Message, resp.Role)
}

func runWhoami(ctx context.Context, client *gateway.Client) {
	authed, err := client.Session().IsAuthenticated(ctx)
	if err != nil {
		fail(err)
	}
	if !authed {
		fmt.Println("Not logged in.")
		return
	}
	role, err := client.Session().Role(ctx)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Logged in (role: %s)\n", role)
}

func runEvents(ctx context.Context, client *gateway.Client) {
	list, err := client.ListVerifiedEvents(ctx)
	if err != nil {
		fail(err)
	}
	printEvents(list, "No verified events.")
}

func runPending(ctx context.Context, client *gateway.Client) {
	list, err := client.ListPendingEvents(ctx)
	if err != nil {
		fail(err)
	}
	printEvents(list, "No pending events.")
}

func runRequest(ctx context.Context, client *gateway.Client, args []string) {
	fs := flag.NewFlagSet("request", flag.ExitOnError)
	name := fs.String("name", "", "Event name")
	date := fs.String("date", "", "Event date (display string)")
	location := fs.String("location", "", "Event location")
	seats := fs.Int("seats", 0, "Total seats")
	fs.Parse(args)

	draft := models.NewDraftEvent(*name, *date, *location, *seats)
	if err := client.SubmitEventRequest(ctx, draft.Request()); err != nil {
		fail(err)
	}
	fmt.Println("Event request submitted. Waiting for admin verification.")
}

func runVerify(ctx context.Context, client *gateway.Client, args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	id := fs.Int64("id", 0, "Event ID")
	fs.Parse(args)
	if *id == 0 {
		fail(fmt.Errorf("-id is required"))
	}

	if err := client.VerifyEvent(ctx, *id); err != nil {
		fail(err)
	}
	fmt.Printf("Event %d verified.\n", *id)
}

func runRegister(ctx context.Context, client *gateway.Client, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	id := fs.Int64("id", 0, "Event ID")
	name := fs.String("name", "", "Full name")
	email := fs.String("email", "", "Email address")
	seats := fs.Int("seats", 1, "Seats to book")
	qrOut := fs.String("qr", "", "Save the ticket QR code as a PNG file")
	fs.Parse(args)
	if *id == 0 || *name == "" || *email == "" {
		fail(fmt.Errorf("-id, -name and -email are required"))
	}

	// Advisory pre-flight only: the server remains the arbiter of seat
	// availability, the check just saves a doomed round trip.
	if list, err := client.ListVerifiedEvents(ctx); err == nil {
		for _, e := range list {
			if e.ID == *id && *seats > e.RemainingSeats {
				fail(fmt.Errorf("only %d seats remaining on %q", e.RemainingSeats, e.Name))
			}
		}
	}

	ticket, err := client.RegisterEvent(ctx, *id, *name, *email, *seats)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Registration #%d confirmed\n", ticket.RegistrationID)
	fmt.Printf("  Event: %s\n", ticket.EventName)
	fmt.Printf("  Name:  %s\n", ticket.RegisteredName)
	fmt.Printf("  Seats: %d\n", ticket.Seats)
	if fields := ticket.QRFields(); len(fields) >= 4 {
		fmt.Printf("  QR:    %s\n", strings.Join(fields[:4], " | "))
	}

	if *qrOut != "" {
		if err := qr.WriteFile(ticket.QRData, *qrOut); err != nil {
			fail(fmt.Errorf("save QR image: %w", err))
		}
		fmt.Printf("  Saved QR code to %s\n", *qrOut)
	}
}

func printEvents(list []models.Event, empty string) {
	if len(list) == 0 {
		fmt.Println(empty)
		return
	}
	fmt.Printf("%-5s %-30s %-20s %-20s %s\n", "ID", "NAME", "DATE", "LOCATION", "SEATS")
	for _, e := range list {
		fmt.Printf("%-5d %-30s %-20s %-20s %d/%d\n",
			e.ID, e.Name, e.EventDate, e.Location, e.RemainingSeats, e.TotalSeats)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", gateway.UserMessage(err))
	os.Exit(1)
}
