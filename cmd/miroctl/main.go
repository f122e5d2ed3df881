// Command miroctl lists and calls the tools of a running miro-mcp server,
// either over HTTP (--url) or by launching the server on stdio (--server).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KamdynS/go-miro-mcp/mcp"
	"github.com/KamdynS/go-miro-mcp/tools"
	"github.com/KamdynS/go-miro-mcp/tools/board"
)

const version = "v0.1.0"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command, rest := args[0], args[1:]
	var err error
	switch command {
	case "tools":
		err = handleTools(ctx, rest, stdout, stderr)
	case "call":
		err = handleCall(ctx, rest, stdout, stderr)
	case "read":
		err = handleRead(ctx, rest, stdout, stderr)
	case "boards":
		err = handleBoards(ctx, rest, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "miroctl version %s\n", version)
	case "help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "miroctl %s: %v\n", command, err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "miroctl - client for the miro-mcp tool server %s\n\n", version)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  miroctl tools [--url URL | --server CMD]            List available tools")
	fmt.Fprintln(w, "  miroctl call <tool> [--url | --server] [json-args]  Call a tool")
	fmt.Fprintln(w, "  miroctl read <board-id> [--url | --server]          Read a board's items")
	fmt.Fprintln(w, "  miroctl boards [--url | --server]                   List board resources")
	fmt.Fprintln(w, "  miroctl version                                     Show version information")
	fmt.Fprintln(w, "  miroctl help                                        Show this help message")
}

type connFlags struct {
	url     *string
	server  *string
	timeout *time.Duration
}

func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, connFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs, connFlags{
		url:     fs.String("url", os.Getenv("MIROCTL_URL"), "base URL of a miro-mcp HTTP server"),
		server:  fs.String("server", "miro-mcp", "server command launched on stdio when --url is empty"),
		timeout: fs.Duration("timeout", 60*time.Second, "overall timeout"),
	}
}

// session is a connected server plus whatever must be released afterwards.
type session struct {
	client mcp.ClientLike
	sdk    *mcp.SDKClient
	http   *mcp.Client
}

func (s *session) close() {
	if s.sdk != nil {
		_ = s.sdk.Close()
	}
}

func connect(ctx context.Context, cf connFlags) (*session, error) {
	if *cf.url != "" {
		c := mcp.NewClient(mcp.ClientConfig{BaseURL: *cf.url, Timeout: *cf.timeout})
		return &session{client: c, http: c}, nil
	}
	parts := strings.Fields(*cf.server)
	if len(parts) == 0 {
		return nil, fmt.Errorf("one of --url or --server is required")
	}
	c, err := mcp.ConnectCommand(ctx, mcp.SDKConfig{
		Command:       parts[0],
		Args:          parts[1:],
		ClientName:    "miroctl",
		ClientVersion: version,
	})
	if err != nil {
		return nil, err
	}
	return &session{client: c, sdk: c}, nil
}

func handleTools(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, cf := newFlagSet("tools", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, *cf.timeout)
	defer cancel()

	s, err := connect(ctx, cf)
	if err != nil {
		return err
	}
	defer s.close()

	list, err := s.client.ListTools(ctx)
	if err != nil {
		return err
	}
	for _, t := range list {
		fmt.Fprintf(stdout, "%-20s %s\n", t.Name, t.Description)
	}
	return nil
}

func handleCall(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, cf := newFlagSet("call", stderr)
	name, rest := firstArg(args)
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("tool name is required")
	}
	callArgs := tools.Args{}
	if fs.NArg() > 0 {
		if err := json.Unmarshal([]byte(fs.Arg(0)), &callArgs); err != nil {
			return fmt.Errorf("arguments must be a JSON object: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, *cf.timeout)
	defer cancel()
	s, err := connect(ctx, cf)
	if err != nil {
		return err
	}
	defer s.close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	reg := tools.NewRegistry(tools.WithLogger(logger))
	if err := mcp.RegisterAllTools(ctx, reg, s.client); err != nil {
		return err
	}
	out, err := reg.Execute(ctx, name, callArgs)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, out)
	return nil
}

func handleRead(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, cf := newFlagSet("read", stderr)
	boardID, rest := firstArg(args)
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if boardID == "" {
		return fmt.Errorf("board id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, *cf.timeout)
	defer cancel()
	s, err := connect(ctx, cf)
	if err != nil {
		return err
	}
	defer s.close()

	var text string
	if s.sdk != nil {
		text, err = s.sdk.ReadResource(ctx, board.BoardURI(boardID))
	} else {
		text, err = s.http.ReadBoard(ctx, boardID)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, text)
	return nil
}

func handleBoards(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, cf := newFlagSet("boards", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, *cf.timeout)
	defer cancel()
	s, err := connect(ctx, cf)
	if err != nil {
		return err
	}
	defer s.close()

	if s.sdk == nil {
		// The HTTP surface has no resource listing; the board list tool
		// carries the same ids.
		list, err := s.client.ExecuteTool(ctx, board.OpListBoards, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, list)
		return nil
	}
	list, err := s.sdk.ListResources(ctx)
	if err != nil {
		return err
	}
	for _, r := range list {
		fmt.Fprintf(stdout, "%-40s %s\n", r.URI, r.Title)
	}
	return nil
}

// firstArg splits off a leading positional argument so flags may follow it.
func firstArg(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", args
	}
	return args[0], args[1:]
}
