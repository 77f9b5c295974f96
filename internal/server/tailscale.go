// ABOUTME: Optional tailnet listener for the reference server built on tsnet
// ABOUTME: Resolves state dir and auth key, brings the node up and listens on :80 or :443

package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"tailscale.com/ipn/ipnstate"
	"tailscale.com/tsnet"

	"github.com/moullakill/bookos-dream-launcher/internal/config"
)

// resolveTailscaleStateDir returns the state directory, defaulting under the data dir.
func resolveTailscaleStateDir(configured string) string {
	if configured != "" {
		return configured
	}
	return filepath.Join(config.DataDir(), "tailscale")
}

// resolveTailscaleAuthKey returns the auth key from config or $TS_AUTHKEY.
func resolveTailscaleAuthKey(configured string) (string, error) {
	authKey := configured
	if authKey == "" {
		authKey = os.Getenv("TS_AUTHKEY")
	}
	if authKey == "" {
		return "", errors.New("tailscale auth key required: set server.tailscale.auth_key or TS_AUTHKEY")
	}
	return authKey, nil
}

// tailscaleListen joins the tailnet and returns the HTTP listener.
func (s *Server) tailscaleListen(ctx context.Context) (net.Listener, error) {
	tsCfg := s.cfg.Tailscale

	stateDir := resolveTailscaleStateDir(tsCfg.StateDir)
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return nil, fmt.Errorf("creating tailscale state dir: %w", err)
	}
	authKey, err := resolveTailscaleAuthKey(tsCfg.AuthKey)
	if err != nil {
		return nil, err
	}

	s.tsnet = &tsnet.Server{
		Hostname:  tsCfg.Hostname,
		Dir:       stateDir,
		Ephemeral: tsCfg.Ephemeral,
		AuthKey:   authKey,
	}

	s.logger.Info("starting tailscale node", "hostname", tsCfg.Hostname, "state_dir", stateDir, "ephemeral", tsCfg.Ephemeral)
	status, err := s.tsnet.Up(ctx)
	if err != nil {
		s.closeTailscale()
		return nil, fmt.Errorf("starting tailscale: %w", err)
	}
	s.logTailscaleStatus(tsCfg.Hostname, status)

	if !tsCfg.HTTPS {
		ln, err := s.tsnet.Listen("tcp", ":80")
		if err != nil {
			s.closeTailscale()
			return nil, fmt.Errorf("listening on tailscale HTTP port: %w", err)
		}
		return ln, nil
	}

	ln, err := s.tsnet.Listen("tcp", ":443")
	if err != nil {
		s.closeTailscale()
		return nil, fmt.Errorf("listening on tailscale HTTPS port: %w", err)
	}
	lc, err := s.tsnet.LocalClient()
	if err != nil {
		_ = ln.Close()
		s.closeTailscale()
		return nil, fmt.Errorf("getting tailscale local client: %w", err)
	}
	return tls.NewListener(ln, &tls.Config{
		GetCertificate: lc.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}), nil
}

func (s *Server) logTailscaleStatus(hostname string, status *ipnstate.Status) {
	var addr, dnsName string
	if len(status.TailscaleIPs) > 0 {
		addr = status.TailscaleIPs[0].String()
	} else {
		s.logger.Warn("tailscale node has no IP addresses assigned")
	}
	if status.Self != nil {
		dnsName = status.Self.DNSName
	}
	s.logger.Info("tailscale node ready", "hostname", hostname, "tailscale_ip", addr, "dns_name", dnsName)
}

// closeTailscale tears down a node that failed to come up.
func (s *Server) closeTailscale() {
	_ = s.tsnet.Close()
	s.tsnet = nil
}
