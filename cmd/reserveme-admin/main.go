// ABOUTME: Operator CLI for the reserveme HTTP API
// ABOUTME: Inspects users, slots, and reservations with bearer-token auth

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/reserv/reserveme/internal/api"
)

const banner = `

  _ __ ___  ___  ___ _ ____   _____ _ __ ___   ___
 | '__/ _ \/ __|/ _ \ '__\ \ / / _ \ '_ ' _ \ / _ \
 | | |  __/\__ \  __/ |   \ V /  __/ | | | | |  __/
 |_|  \___||___/\___|_|    \_/ \___|_| |_| |_|\___|  admin
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	baseURL := os.Getenv("RESERVEME_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	token := os.Getenv("RESERVEME_TOKEN")

	c := &client{baseURL: baseURL, token: token}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "me":
		err = cmdMe(c)
	case "users":
		err = cmdUsers(c)
	case "slots":
		err = cmdSlots(c, args)
	case "reservations":
		err = cmdReservations(c, args)
	case "health":
		err = cmdHealth(c)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: reserveme-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  me                      Show the authenticated user")
	fmt.Println("  users                   List registered users")
	fmt.Println("  slots [ownerId]         List bookable slots (optionally one owner's)")
	fmt.Println("  reservations [userId]   List reservations touching a user (default: you)")
	fmt.Println("  health                  Check server health")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  RESERVEME_URL           Server base URL (default: http://localhost:8080)")
	fmt.Println("  RESERVEME_TOKEN         JWT access token (required for most commands)")
}

// client is a thin bearer-authenticated HTTP client for the API.
type client struct {
	baseURL string
	token   string
}

func (c *client) get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func cmdMe(c *client) error {
	var user api.UserResponse
	if err := c.get("/api/users/me", &user); err != nil {
		return err
	}

	fmt.Printf("%s <%s>\n", color.CyanString(user.DisplayName), user.Email)
	fmt.Printf("id: %s\n", user.ID)
	return nil
}

func cmdUsers(c *client) error {
	var users []api.UserResponse
	if err := c.get("/api/users", &users); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tCREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.DisplayName, u.CreatedAt)
	}
	return w.Flush()
}

func cmdSlots(c *client, args []string) error {
	path := "/api/slots"
	if len(args) > 0 {
		path = "/api/slots/byOwner?ownerId=" + url.QueryEscape(args[0])
	}

	var slots []api.SlotResponse
	if err := c.get(path, &slots); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tOWNER\tSTART\tEND")
	for _, s := range slots {
		owner := s.OwnerName
		if owner == "" {
			owner = s.OwnerID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, owner, formatTime(s.StartTime), formatTime(s.EndTime))
	}
	return w.Flush()
}

func cmdReservations(c *client, args []string) error {
	path := "/api/reservations"
	if len(args) > 0 {
		path += "?userId=" + url.QueryEscape(args[0])
	}

	var reservations []api.ReservationResponse
	if err := c.get(path, &reservations); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLOT\tREQUESTER\tSTATUS\tKIND")
	for _, r := range reservations {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.SlotID, r.RequesterID, r.Status, r.Kind)
	}
	return w.Flush()
}

func cmdHealth(c *client) error {
	var resp map[string]string
	if err := c.get("/health", &resp); err != nil {
		return err
	}
	color.Green("healthy")
	return nil
}

func formatTime(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Local().Format("2006-01-02 15:04")
}
