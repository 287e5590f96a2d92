package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"lorehub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type tokenData struct {
	Token string `json:"token"`
}

type authResponse struct {
	Token string `json:"token"`
}

type characterListResponse struct {
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
	Items  []models.Character `json:"items"`
}

func main() {
	global := flag.NewFlagSet("lorehub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "auth":
		handleAuth(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "characters":
		handleCharacters(ctx, client, *baseURL, sub, args[2:])
	case "taxonomies":
		handleTaxonomies(ctx, client, *baseURL, sub, args[2:])
	case "arena":
		handleArena(ctx, client, *baseURL, sub, args[2:])
	case "lineup":
		handleLineup(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "live":
		handleLive(*baseURL, sub, args[2:])
	case "export":
		handleExport(ctx, client, *baseURL, sub, args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		username := fs.String("username", "", "username (alternative to email)")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if (*email == "" && *username == "") || *password == "" {
			log.Fatal("email or username, and password are required")
		}

		payload := map[string]string{"email": *email, "username": *username, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/login", "", payload, &resp); err != nil {
			log.Fatalf("login failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("logged in")
	case "register":
		fs := flag.NewFlagSet("auth register", flag.ExitOnError)
		username := fs.String("username", "", "username")
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *username == "" || *email == "" || *password == "" {
			log.Fatal("username, email, and password are required")
		}

		payload := map[string]string{"username": *username, "email": *email, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/register", "", payload, &resp); err != nil {
			log.Fatalf("register failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("registered and logged in")
	case "logout":
		if err := clearToken(tokenPath); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("logged out")
	default:
		log.Fatal("usage: lorehub auth <login|register|logout>")
	}
}

func handleCharacters(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "search":
		fs := flag.NewFlagSet("characters search", flag.ExitOnError)
		query := fs.String("q", "", "search query")
		era := fs.String("era", "", "era filter")
		status := fs.String("status", "", "status filter")
		factions := fs.String("factions", "", "comma-separated factions")
		limit := fs.Int("limit", 20, "page size")
		offset := fs.Int("offset", 0, "offset")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/characters")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		if *query != "" {
			qv.Set("q", *query)
		}
		if *era != "" {
			qv.Set("era", *era)
		}
		if *status != "" {
			qv.Set("status", *status)
		}
		if *factions != "" {
			qv.Set("factions", *factions)
		}
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		qv.Set("offset", fmt.Sprintf("%d", *offset))
		u.RawQuery = qv.Encode()

		var resp characterListResponse
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			log.Fatalf("search failed: %v", err)
		}
		printJSON(resp)
	case "show":
		fs := flag.NewFlagSet("characters show", flag.ExitOnError)
		id := fs.String("id", "", "character id or slug")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("character id is required")
		}

		var resp models.Character
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/characters/"+url.PathEscape(*id), "", nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: lorehub characters <search|show>")
	}
}

func handleTaxonomies(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "list":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/taxonomies", "", nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "show":
		fs := flag.NewFlagSet("taxonomies show", flag.ExitOnError)
		typ := fs.String("type", "faction", "taxonomy type (faction|location|power|timeline)")
		slug := fs.String("slug", "", "entry slug (optional)")
		_ = fs.Parse(args)

		endpoint := baseURL + "/taxonomies/" + url.PathEscape(*typ)
		if *slug != "" {
			endpoint += "/" + url.PathEscape(*slug)
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, endpoint, "", nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: lorehub taxonomies <list|show>")
	}
}

func handleArena(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "pair":
		fs := flag.NewFlagSet("arena pair", flag.ExitOnError)
		filter := fs.String("filter", "all", "all or with_portrait")
		exclude := fs.String("exclude", "", "character id to exclude")
		seed := fs.String("seed", "", "seed for a replayable draw")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/arena/pair")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		qv.Set("filter", *filter)
		if *exclude != "" {
			qv.Set("exclude", *exclude)
		}
		if *seed != "" {
			qv.Set("seed", *seed)
		}
		u.RawQuery = qv.Encode()

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			log.Fatalf("pair failed: %v", err)
		}
		printJSON(resp)
	case "duel":
		fs := flag.NewFlagSet("arena duel", flag.ExitOnError)
		c1 := fs.String("c1", "", "first character id")
		c2 := fs.String("c2", "", "second character id")
		seed := fs.Int64("seed", 0, "seed for a replayable duel")
		hasSeed := false
		_ = fs.Parse(args)
		fs.Visit(func(f *flag.Flag) {
			if f.Name == "seed" {
				hasSeed = true
			}
		})
		if *c1 == "" || *c2 == "" {
			log.Fatal("c1 and c2 are required")
		}

		payload := map[string]any{"char1_id": *c1, "char2_id": *c2}
		if hasSeed {
			payload["seed"] = *seed
		}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/arena/duel", "", payload, &resp); err != nil {
			log.Fatalf("duel failed: %v", err)
		}
		printJSON(resp)
	case "random-duel":
		fs := flag.NewFlagSet("arena random-duel", flag.ExitOnError)
		seed := fs.String("seed", "", "seed for a replayable duel")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/arena/random-duel")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		if *seed != "" {
			qv := u.Query()
			qv.Set("seed", *seed)
			u.RawQuery = qv.Encode()
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			log.Fatalf("random-duel failed: %v", err)
		}
		printJSON(resp)
	case "faction-duel":
		fs := flag.NewFlagSet("arena faction-duel", flag.ExitOnError)
		left := fs.String("left", "", "left faction slug (empty for random)")
		right := fs.String("right", "", "right faction slug (empty for random)")
		_ = fs.Parse(args)

		payload := map[string]any{"left": *left, "right": *right}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/arena/faction-duel", "", payload, &resp); err != nil {
			log.Fatalf("faction-duel failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: lorehub arena <pair|duel|random-duel|faction-duel>")
	}
}

func handleLineup(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "add":
		fs := flag.NewFlagSet("lineup add", flag.ExitOnError)
		characterID := fs.String("character-id", "", "character id")
		role := fs.String("role", "contender", "champion, contender or reserve")
		note := fs.String("note", "", "free-form note")
		_ = fs.Parse(args)
		if *characterID == "" {
			log.Fatal("character-id is required")
		}

		payload := map[string]any{
			"character_id": *characterID,
			"role":         *role,
			"note":         *note,
		}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/users/lineup", token, payload, &resp); err != nil {
			log.Fatalf("add failed: %v", err)
		}
		printJSON(resp)
	case "remove":
		fs := flag.NewFlagSet("lineup remove", flag.ExitOnError)
		characterID := fs.String("character-id", "", "character id")
		_ = fs.Parse(args)
		if *characterID == "" {
			log.Fatal("character-id is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/users/lineup/"+url.PathEscape(*characterID), token, nil, &resp); err != nil {
			log.Fatalf("remove failed: %v", err)
		}
		printJSON(resp)
	case "list":
		fs := flag.NewFlagSet("lineup list", flag.ExitOnError)
		role := fs.String("role", "", "role filter")
		limit := fs.Int("limit", 20, "page size")
		offset := fs.Int("offset", 0, "offset")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/users/lineup")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		if *role != "" {
			qv.Set("role", *role)
		}
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		qv.Set("offset", fmt.Sprintf("%d", *offset))
		u.RawQuery = qv.Encode()

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, u.String(), token, nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: lorehub lineup <add|remove|list>")
	}
}

func handleLive(baseURL, sub string, args []string) {
	switch sub {
	case "listen":
		fs := flag.NewFlagSet("live listen", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:7070", "TCP live feed address")
		pretty := fs.Bool("pretty", true, "pretty print JSON events")
		_ = fs.Parse(args)
		for {
			if err := runLiveTCP(*addr, *pretty); err != nil {
				log.Printf("[live] disconnected: %v", err)
			}
			time.Sleep(1 * time.Second)
		}
	case "subscribe":
		fs := flag.NewFlagSet("live subscribe", flag.ExitOnError)
		wsURL := fs.String("ws", "", "WebSocket URL (defaults to /ws on API host)")
		_ = fs.Parse(args)

		endpoint := *wsURL
		if endpoint == "" {
			var err error
			endpoint, err = websocketURL(baseURL, "/ws")
			if err != nil {
				log.Fatalf("ws url: %v", err)
			}
		}
		if err := runWebSocket(endpoint); err != nil {
			log.Fatalf("subscribe failed: %v", err)
		}
	default:
		log.Fatal("usage: lorehub live <listen|subscribe>")
	}
}

func handleExport(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "json":
		fs := flag.NewFlagSet("export json", flag.ExitOnError)
		out := fs.String("out", "data/characters-export.json", "output JSON path")
		limit := fs.Int("limit", 200, "max characters to export")
		_ = fs.Parse(args)

		items, err := fetchCharacters(ctx, client, baseURL, *limit)
		if err != nil {
			log.Fatalf("export json failed: %v", err)
		}
		if err := writeJSON(*out, items); err != nil {
			log.Fatalf("write json failed: %v", err)
		}
		log.Printf("exported %d characters to %s", len(items), *out)
	case "csv":
		fs := flag.NewFlagSet("export csv", flag.ExitOnError)
		out := fs.String("out", "data/characters-export.csv", "output CSV path")
		limit := fs.Int("limit", 200, "max characters to export")
		_ = fs.Parse(args)

		items, err := fetchCharacters(ctx, client, baseURL, *limit)
		if err != nil {
			log.Fatalf("export csv failed: %v", err)
		}
		if err := writeCSV(*out, items); err != nil {
			log.Fatalf("write csv failed: %v", err)
		}
		log.Printf("exported %d characters to %s", len(items), *out)
	default:
		log.Fatal("usage: lorehub export <json|csv>")
	}
}

func runLiveTCP(addr string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[live] connected to %s", addr)
	reader := bufio.NewScanner(conn)
	for reader.Scan() {
		line := reader.Bytes()
		if !pretty {
			fmt.Println(string(line))
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			fmt.Println(string(line))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
	if err := reader.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[live] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func fetchCharacters(ctx context.Context, client *http.Client, baseURL string, limit int) ([]models.Character, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be > 0")
	}

	var out []models.Character
	offset := 0
	for len(out) < limit {
		pageSize := 50
		if remaining := limit - len(out); remaining < pageSize {
			pageSize = remaining
		}
		u, err := url.Parse(baseURL + "/characters")
		if err != nil {
			return nil, err
		}
		qv := u.Query()
		qv.Set("limit", fmt.Sprintf("%d", pageSize))
		qv.Set("offset", fmt.Sprintf("%d", offset))
		u.RawQuery = qv.Encode()

		var resp characterListResponse
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			return nil, err
		}
		if len(resp.Items) == 0 {
			break
		}
		out = append(out, resp.Items...)
		offset += len(resp.Items)
		if offset >= resp.Total {
			break
		}
	}

	return out, nil
}

func writeJSON(path string, items []models.Character) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func writeCSV(path string, items []models.Character) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{
		"id", "slug", "name", "factions", "primary_location", "era", "status", "alignment",
	}); err != nil {
		return err
	}
	for _, item := range items {
		if err := writer.Write([]string{
			item.ID,
			item.Slug,
			item.Name,
			strings.Join(item.Factions, ","),
			item.PrimaryLocation,
			item.Era,
			item.Status,
			item.Alignment,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint, token string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	return nil
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.lorehub-token.json"
	}
	return filepath.Join(home, ".lorehub", "token.json")
}

func saveToken(path, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tokenData{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		return "", err
	}
	return strings.TrimSpace(td.Token), nil
}

func mustToken(path string) string {
	token, err := readToken(path)
	if err != nil {
		log.Fatalf("token not found, please login: %v", err)
	}
	if token == "" {
		log.Fatal("token empty, please login")
	}
	return token
}

func clearToken(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

func printUsage() {
	fmt.Println("lorehub <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  auth login|register|logout")
	fmt.Println("  characters search|show")
	fmt.Println("  taxonomies list|show")
	fmt.Println("  arena pair|duel|random-duel|faction-duel")
	fmt.Println("  lineup add|remove|list")
	fmt.Println("  live listen|subscribe")
	fmt.Println("  export json|csv")
}
