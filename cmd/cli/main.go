package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "task":
		handleTask(args)
	case "project":
		handleProject(args)
	case "team":
		handleTeam(args)
	case "tag":
		handleTag(args)
	case "admin":
		handleAdmin(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: workasana auth <signup|login|logout|who>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "signup":
		signupUser(args[1:])
	case "login":
		loginUser(args[1:])
	case "logout":
		logoutUser()
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", subCmd)
	}
}

func handleTask(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: workasana task <list|create|status>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "list":
		listTasks(args[1:])
	case "create":
		createTask(args[1:])
	case "status":
		updateTaskStatus(args[1:])
	default:
		fmt.Printf("unknown task command: %s\n", subCmd)
	}
}

func handleProject(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: workasana project <list|create>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "list":
		listResource("/projects", "projects")
	case "create":
		createNamed(args[1:], "project", "/project")
	default:
		fmt.Printf("unknown project command: %s\n", subCmd)
	}
}

func handleTeam(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: workasana team <list|create>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "list":
		listResource("/teams", "teams")
	case "create":
		createNamed(args[1:], "team", "/teams")
	default:
		fmt.Printf("unknown team command: %s\n", subCmd)
	}
}

func handleTag(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: workasana tag <list|create>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "list":
		listResource("/tags", "tags")
	case "create":
		createNamed(args[1:], "tag", "/tag")
	default:
		fmt.Printf("unknown tag command: %s\n", subCmd)
	}
}

func handleAdmin(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: workasana admin <login>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "login":
		adminLogin(args[1:])
	default:
		fmt.Printf("unknown admin command: %s\n", subCmd)
	}
}

// Auth commands
func signupUser(args []string) {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	username := fs.String("username", "", "username (at least 5 characters)")
	password := fs.String("password", "", "password")
	email := fs.String("email", "", "email address")

	fs.Parse(args)

	if *username == "" || *password == "" {
		fmt.Println("Error: username and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{
		"username": *username,
		"password": *password,
	}
	if *email != "" {
		payload["email"] = *email
	}

	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/user/signup", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 201 {
		fmt.Printf("✓ User registered: %s\n", *username)
	} else {
		fmt.Printf("✗ Signup failed: %v\n", result)
	}
}

func loginUser(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")

	fs.Parse(args)

	if *username == "" || *password == "" {
		fmt.Println("Error: username and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"username": *username, "password": *password}
	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/user/login", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 {
		if token, ok := result["token"].(string); ok {
			saveToken(token)
			fmt.Printf("✓ Logged in as: %s\n", *username)
		}
	} else {
		fmt.Printf("✗ Login failed: %v\n", result)
	}
}

func logoutUser() {
	os.Remove(tokenFile())
	fmt.Println("✓ Logged out")
}

func whoAmI() {
	token := loadToken()
	if token == "" {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("✓ Logged in (token: %s...)\n", token[:20])
}

func adminLogin(args []string) {
	fs := flag.NewFlagSet("admin-login", flag.ExitOnError)
	secret := fs.String("secret", "", "admin secret")

	fs.Parse(args)

	if *secret == "" {
		fmt.Println("Error: secret is required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"secret": *secret}
	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/admin/login", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if token, ok := result["token"].(string); ok {
		saveToken(token)
		fmt.Println("✓ Admin access granted")
	} else {
		fmt.Printf("✗ Admin login failed: %v\n", result)
	}
}

// Task commands
func listTasks(args []string) {
	_ = args
	req, _ := http.NewRequest("GET", getAPIURL()+"/tasks", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		var errBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errBody)
		fmt.Printf("✗ %v\n", errBody)
		return
	}

	var tasks []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&tasks)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tDAYS")
	for _, t := range tasks {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", t["id"], t["name"], t["status"], t["timeToComplete"])
	}
	w.Flush()
}

func createTask(args []string) {
	fs := flag.NewFlagSet("task-create", flag.ExitOnError)
	name := fs.String("name", "", "task name")
	status := fs.String("status", "To Do", "task status")
	project := fs.String("project", "", "project ID")
	team := fs.String("team", "", "team ID")
	owners := fs.String("owners", "", "comma-separated owner user IDs")
	tags := fs.String("tags", "", "comma-separated tag names")
	days := fs.Int("days", 0, "days to complete")

	fs.Parse(args)

	if *name == "" {
		fmt.Println("Error: name is required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]interface{}{
		"name":           *name,
		"status":         *status,
		"project":        *project,
		"team":           *team,
		"timeToComplete": *days,
	}
	if *owners != "" {
		payload["owners"] = strings.Split(*owners, ",")
	}
	if *tags != "" {
		payload["tags"] = strings.Split(*tags, ",")
	}

	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", getAPIURL()+"/tasks", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 201 {
		fmt.Printf("✓ Task created: %s\n", *name)
	} else {
		fmt.Printf("✗ Task creation failed: %v\n", result)
	}
}

func updateTaskStatus(args []string) {
	fs := flag.NewFlagSet("task-status", flag.ExitOnError)
	id := fs.String("id", "", "task ID")
	status := fs.String("status", "", "new status")

	fs.Parse(args)

	if *id == "" || *status == "" {
		fmt.Println("Error: id and status are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"status": *status}
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", getAPIURL()+"/tasks/status/"+*id, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 {
		fmt.Printf("✓ Status updated: %s\n", *status)
	} else {
		fmt.Printf("✗ Status update failed: %v\n", result)
	}
}

// Generic list/create helpers for projects, teams and tags
func listResource(path, label string) {
	req, _ := http.NewRequest("GET", getAPIURL()+path, nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		var errBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errBody)
		fmt.Printf("✗ %v\n", errBody)
		return
	}

	var items []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&items)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
	for _, item := range items {
		fmt.Fprintf(w, "%v\t%v\t%v\n", item["id"], item["name"], item["description"])
	}
	w.Flush()
	_ = label
}

func createNamed(args []string, label, path string) {
	fs := flag.NewFlagSet(label+"-create", flag.ExitOnError)
	name := fs.String("name", "", label+" name")
	description := fs.String("description", "", label+" description")

	fs.Parse(args)

	if *name == "" {
		fmt.Println("Error: name is required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"name": *name}
	if *description != "" {
		payload["description"] = *description
	}

	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", getAPIURL()+path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 || resp.StatusCode == 201 {
		fmt.Printf("✓ %s created: %s\n", label, *name)
	} else {
		fmt.Printf("✗ %s creation failed: %v\n", label, result)
	}
}

// Helper functions
func getAPIURL() string {
	if url := os.Getenv("WORKASANA_API"); url != "" {
		return url
	}
	return "http://localhost:3000"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return home + "/.workasana/token"
}

func saveToken(token string) error {
	os.MkdirAll(os.Getenv("HOME")+"/.workasana", 0700)
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func addAuthHeader(req *http.Request) {
	token := loadToken()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func printUsage() {
	fmt.Print(`Workasana CLI

Usage:
  workasana <command> [options]

Commands:
  auth     User authentication (signup, login, logout, who)
  task     Task operations (list, create, status)
  project  Project operations (list, create)
  team     Team operations (list, create)
  tag      Tag operations (list, create)
  admin    Admin operations (login) - requires the admin secret
  help     Show this help message

Environment Variables:
  WORKASANA_API    API endpoint (default: http://localhost:3000)

Examples:
  workasana auth signup -username alice1 -password s3cret -email alice@example.com
  workasana auth login -username alice1 -password s3cret
  workasana task list
  workasana task create -name "Ship release" -status "In Progress" -days 5
  workasana task status -id <task-id> -status Completed
`)
}
