// Command bm is a CLI client for the Brainly service.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ---- config/token store ----

type tokenFile struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "brainly")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "brainly")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

// saveToken stores the token; a zero exp means it never expires.
func saveToken(tok string, exp time.Time) error {
	if err := os.MkdirAll(cfgDir(), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(tokenPath(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{Token: tok, ExpiresAt: exp})
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.Token == "" || (!tf.ExpiresAt.IsZero() && time.Now().After(tf.ExpiresAt)) {
		return "", errors.New("no valid token (signin required)")
	}
	return tf.Token, nil
}

// tokenExpiry reads exp without verifying the signature; the server does that.
func tokenExpiry(tok string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// ---- http client ----

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("server: %d %s", e.Status, e.Message)
}

type client struct {
	base  string
	http  *http.Client
	token string
}

func newClient(base, token string) *client {
	return &client{
		base:  strings.TrimRight(base, "/"),
		http:  &http.Client{Timeout: 30 * time.Second},
		token: token,
	}
}

// do sends in as JSON (when non-nil) and decodes the response into out.
func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var m struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&m)
		return &apiError{Status: resp.StatusCode, Message: m.Message}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ---- utils ----

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

const usageText = `bm CLI
Usage:
  bm [-addr URL] <cmd> [args]

Commands:
  version
  signup   -u <username> -n <name> -e <email> -p <password>   (saves token)
  signin   -u <username> -p <password>                         (saves token)
  add      -link <url> -type <type> -title <title>
  list
  rm       -id <content id>
  share                                                        (prints share hash)
  unshare
  open     <hash>                                              (public brain)
`

var errUsage = errors.New("usage")

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := run(ctx, os.Args[1:], os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run parses global flags and dispatches the subcommand.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	gfs := flag.NewFlagSet("bm", flag.ContinueOnError)
	gfs.SetOutput(io.Discard)
	addr := gfs.String("addr", "http://localhost:3000", "server base URL")
	if err := gfs.Parse(args); err != nil {
		return errUsage
	}
	if gfs.NArg() < 1 {
		return errUsage
	}
	cmd, rest := gfs.Arg(0), gfs.Args()[1:]
	api := *addr + "/api/v1"

	switch cmd {

	case "version":
		fmt.Fprintf(stdout, "bm %s (%s)\n", version, buildDate)
		return nil

	case "signup":
		fs := flag.NewFlagSet("signup", flag.ContinueOnError)
		u := fs.String("u", "", "username")
		n := fs.String("n", "", "name")
		e := fs.String("e", "", "email")
		p := fs.String("p", "", "password")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if *u == "" || *n == "" || *e == "" || *p == "" {
			return errors.New("need -u, -n, -e and -p")
		}
		return authenticate(ctx, newClient(api, ""), "/signup", map[string]string{
			"username": *u, "name": *n, "email": *e, "password": *p,
		}, stdout)

	case "signin":
		fs := flag.NewFlagSet("signin", flag.ContinueOnError)
		u := fs.String("u", "", "username")
		p := fs.String("p", "", "password")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if *u == "" || *p == "" {
			return errors.New("need -u and -p")
		}
		return authenticate(ctx, newClient(api, ""), "/signin", map[string]string{
			"username": *u, "password": *p,
		}, stdout)

	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		link := fs.String("link", "", "link")
		typ := fs.String("type", "", "content type")
		title := fs.String("title", "", "title")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		return authed(ctx, api, stdout, http.MethodPost, "/content", map[string]string{
			"link": *link, "type": *typ, "title": *title,
		})

	case "list":
		return authed(ctx, api, stdout, http.MethodGet, "/content", nil)

	case "rm":
		fs := flag.NewFlagSet("rm", flag.ContinueOnError)
		id := fs.String("id", "", "content id")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if *id == "" {
			return errors.New("need -id")
		}
		return authed(ctx, api, stdout, http.MethodDelete, "/content", map[string]string{"contentId": *id})

	case "share":
		return authed(ctx, api, stdout, http.MethodPost, "/brain/share", map[string]bool{"share": true})

	case "unshare":
		return authed(ctx, api, stdout, http.MethodPost, "/brain/share", map[string]bool{"share": false})

	case "open":
		if len(rest) != 1 || rest[0] == "" {
			return errors.New("need <hash>")
		}
		var out map[string]any
		if err := newClient(api, "").do(ctx, http.MethodGet, "/brain/"+url.PathEscape(rest[0]), nil, &out); err != nil {
			return err
		}
		printJSON(stdout, out)
		return nil

	default:
		return errUsage
	}
}

func authenticate(ctx context.Context, c *client, path string, in any, stdout io.Writer) error {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, path, in, &out); err != nil {
		return err
	}
	if out.Token == "" {
		return errors.New("server returned no token")
	}
	if err := saveToken(out.Token, tokenExpiry(out.Token)); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "ok")
	return nil
}

func authed(ctx context.Context, api string, stdout io.Writer, method, path string, in any) error {
	tok, err := loadToken()
	if err != nil {
		return err
	}
	var out map[string]any
	if err := newClient(api, tok).do(ctx, method, path, in, &out); err != nil {
		return err
	}
	printJSON(stdout, out)
	return nil
}
