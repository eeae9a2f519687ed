package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/dayplan/pkg/app"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	// TransportHTTP serves MCP via the streamable HTTP transport.
	TransportHTTP Transport = "http"
	// TransportStdio serves MCP over stdio.
	TransportStdio Transport = "stdio"
)

const instructions = `Tasks are classified into views (today, tomorrow, this_week, next_week, overdue, someday, bank) as of the caller's day.
Pass now as RFC3339 with your UTC offset on every call; without it the server clock and zone decide what today is.
Recurring tasks have no row per day: toggle_* tools take the occurrence date (YYYY-MM-DD) and change only that day.
Use complete_all_future to end a series instead of deleting it.`

// HTTPOptions configures the streamable HTTP transport.
type HTTPOptions struct {
	// Host and Port default to 127.0.0.1:8080. Port 0 picks a free port.
	Host string
	Port int
	// Path is the endpoint, /mcp by default.
	Path string

	CertFile string
	KeyFile  string

	// OnListening receives the URL clients should connect to.
	OnListening func(url string)
}

// Runner serves the dayplan MCP server.
type Runner struct {
	App *app.Service
	// Clock decides "today" for calls that omit now. Defaults to time.Now.
	Clock   func() time.Time
	Version string

	Transport Transport
	HTTP      HTTPOptions
}

// NewServer registers the dayplan tools and resources on a new MCP server.
func NewServer(svc *Service, version string) *server.MCPServer {
	if version == "" {
		version = "dev"
	}
	srv := server.NewMCPServer(
		"dayplan MCP",
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions(instructions),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

func (r Runner) Do(ctx context.Context) error {
	if r.App == nil || r.App.Persistence == nil {
		return errors.New("mcp runner requires a task service")
	}
	srv := NewServer(&Service{App: r.App, Clock: r.Clock}, r.Version)

	switch t := r.Transport; t {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv)
	case TransportStdio:
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("unknown MCP transport %q (expected http or stdio)", t)
	}
}

func (o HTTPOptions) path() string {
	p := strings.TrimSpace(o.Path)
	if p == "" {
		return "/mcp"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func (o HTTPOptions) addr() (string, error) {
	if o.Port < 0 || o.Port > 65535 {
		return "", fmt.Errorf("invalid http port %d", o.Port)
	}
	host := strings.TrimSpace(o.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, fmt.Sprint(o.Port)), nil
}

func (o HTTPOptions) tls() bool {
	return o.CertFile != "" && o.KeyFile != ""
}

// url is what a client dials for a listener bound to a. Wildcard hosts are
// shown as the bound or loopback address.
func (o HTTPOptions) url(a net.Addr) string {
	scheme := "http"
	if o.tls() {
		scheme = "https"
	}
	tcp, ok := a.(*net.TCPAddr)
	if !ok {
		return fmt.Sprintf("%s://%s%s", scheme, a.String(), o.path())
	}
	host := strings.TrimSpace(o.Host)
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
		if tcp.IP != nil && !tcp.IP.IsUnspecified() {
			host = tcp.IP.String()
		}
	}
	return fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(host, fmt.Sprint(tcp.Port)), o.path())
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	o := r.HTTP
	if (o.CertFile == "") != (o.KeyFile == "") {
		return errors.New("both http tls cert and key must be provided")
	}
	addr, err := o.addr()
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle(o.path(), server.NewStreamableHTTPServer(srv))
	httpSrv := &http.Server{Handler: mux}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if o.OnListening != nil {
		o.OnListening(o.url(ln.Addr()))
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if o.tls() {
		err = httpSrv.ServeTLS(ln, o.CertFile, o.KeyFile)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
