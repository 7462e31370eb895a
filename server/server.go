package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/acme/autocert"
)

const (
	DefaultPort    = "5050"
	DefaultTLSMode = "auto"

	TLSModeAuto   = "auto"
	TLSModeManual = "manual"

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type Server struct {
	Host string
	Port string
	TLS  ServerTLS
}

type ServerTLS struct {
	Enabled  bool
	Mode     string
	AutoCert *ServerTLSAutoCert
	CertFile string
	KeyFile  string
}

type ServerTLSAutoCert struct {
	CacheDir string
	Domains  []string
	Email    string
}

// Run serves handler until ctx is cancelled, then shuts down
// gracefully.
func (srv *Server) Run(ctx context.Context, handler http.Handler) error {
	addr := net.JoinHostPort(srv.Host, srv.Port)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	switch {
	case !srv.TLS.Enabled:
		slog.InfoContext(ctx, "starting http server", "address", "http://"+addr)

		go func() {
			errCh <- httpServer.ListenAndServe()
		}()
	case srv.TLS.Mode == TLSModeManual:
		slog.InfoContext(ctx, "starting https server", "address", "https://"+addr)

		go func() {
			errCh <- httpServer.ListenAndServeTLS(srv.TLS.CertFile, srv.TLS.KeyFile)
		}()
	case srv.TLS.Mode == TLSModeAuto:
		if srv.TLS.AutoCert == nil || len(srv.TLS.AutoCert.Domains) == 0 {
			return errors.New("tls auto mode requires at least one domain")
		}

		manager := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			Cache:      autocert.DirCache(srv.TLS.AutoCert.CacheDir),
			HostPolicy: autocert.HostWhitelist(srv.TLS.AutoCert.Domains...),
			Email:      srv.TLS.AutoCert.Email,
		}

		httpServer.TLSConfig = manager.TLSConfig()

		slog.InfoContext(
			ctx,
			"starting https server with automatic certificates",
			"address",
			domainsToHTTPSAddress(srv.TLS.AutoCert.Domains),
		)

		go func() {
			errCh <- httpServer.ListenAndServeTLS("", "")
		}()
	default:
		return fmt.Errorf("unknown tls mode %q", srv.TLS.Mode)
	}

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	slog.InfoContext(ctx, "server stopped gracefully")

	return nil
}

func domainsToHTTPSAddress(domains []string) string {
	addresses := make([]string, 0, len(domains))

	for _, domain := range domains {
		addresses = append(addresses, "https://"+domain)
	}

	return strings.Join(addresses, ", ")
}
